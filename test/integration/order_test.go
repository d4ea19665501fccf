package integration

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 结账与订单集成测试
// 下单走购物车结账：加购 → POST /cart/checkout → 订单落库、库存扣减、购物车清空

// TestCheckout 测试购物车结账
func TestCheckout(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	t.Run("正常结账", func(t *testing.T) {
		_, token := RegisterTestUser(t, "checkout_ok")
		bookID := PublishTestBook(t, adminToken, "《结账测试》", 10)

		AddToCart(t, token, bookID, 2)

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "mbway",
		}, token)
		require.Equal(t, 0, resp.Code, "结账应该成功: %s", resp.Message)

		var order CheckoutData
		err := json.Unmarshal(resp.Data, &order)
		require.NoError(t, err)

		assert.NotZero(t, order.OrderID)
		assert.NotEmpty(t, order.Reference, "应该生成订单号")
		assert.Equal(t, 1, order.Status, "新订单应为待发货状态")
		assert.Equal(t, "mbway", order.PaymentMethod)
		assert.Equal(t, int64(8900*2), order.Total, "总额应为单价×数量")
		assert.Equal(t, "178.00", order.TotalFormatted)

		// 结账后购物车应清空
		viewResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, viewResp.Code)

		var view CartViewData
		err = json.Unmarshal(viewResp.Data, &view)
		require.NoError(t, err)
		assert.Empty(t, view.Items, "结账后购物车应清空")

		// 库存应扣减
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var book BookData
		err = json.Unmarshal(bookResp.Data, &book)
		require.NoError(t, err)
		assert.Equal(t, 8, book.Stock, "库存应从10扣减到8")

		t.Logf("✓ 结账成功，订单号: %s, 总额: %s", order.Reference, order.TotalFormatted)
	})

	t.Run("空购物车结账应失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "checkout_empty")

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "credit_card",
		}, token)

		assert.NotEqual(t, 0, resp.Code, "空购物车结账应该失败")

		t.Logf("✓ 空购物车结账正确返回错误: %s", resp.Message)
	})

	t.Run("库存不足结账应失败且不留半成品", func(t *testing.T) {
		_, token := RegisterTestUser(t, "checkout_short")
		bookID := PublishTestBook(t, adminToken, "《缺货测试》", 3)

		// 加购5件，库存只有3件
		AddToCart(t, token, bookID, 5)

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "mbway",
		}, token)

		assert.Equal(t, 40001, resp.Code, "应返回库存不足错误码")

		// 事务回滚：库存不变
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var book BookData
		err := json.Unmarshal(bookResp.Data, &book)
		require.NoError(t, err)
		assert.Equal(t, 3, book.Stock, "失败结账不应扣减库存")

		// 购物车保持原样
		viewResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, viewResp.Code)

		var view CartViewData
		err = json.Unmarshal(viewResp.Data, &view)
		require.NoError(t, err)
		assert.Equal(t, 5, view.TotalUnits, "失败结账不应清空购物车")

		// 订单列表应为空
		listResp := GetJSON(t, BaseURL+"/orders", token)
		require.Equal(t, 0, listResp.Code)

		var list struct {
			Total int64 `json:"total"`
		}
		err = json.Unmarshal(listResp.Data, &list)
		require.NoError(t, err)
		assert.Zero(t, list.Total, "失败结账不应产生订单")

		t.Logf("✓ 库存不足正确回滚: %s", resp.Message)
	})

	t.Run("无效支付方式应失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "checkout_badpay")
		bookID := PublishTestBook(t, adminToken, "《支付方式测试》", 5)
		AddToCart(t, token, bookID, 1)

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "paypal",
		}, token)

		assert.NotEqual(t, 0, resp.Code, "不支持的支付方式应该被拒绝")

		t.Logf("✓ 无效支付方式正确返回错误: %s", resp.Message)
	})

	t.Run("价格快照不随改价变化", func(t *testing.T) {
		_, token := RegisterTestUser(t, "checkout_snap")
		bookID := PublishTestBook(t, adminToken, "《快照测试》", 10)

		// 先加购（此时快照单价8900）
		AddToCart(t, token, bookID, 1)

		// 管理员改价
		updateResp := PutJSON(t, fmt.Sprintf("%s/admin/books/%d", BaseURL, bookID),
			map[string]interface{}{"price": 19900}, adminToken)
		require.Equal(t, 0, updateResp.Code, "改价应该成功: %s", updateResp.Message)

		// 结账仍按加购时的快照价结算
		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "mbway",
		}, token)
		require.Equal(t, 0, resp.Code)

		var order CheckoutData
		err := json.Unmarshal(resp.Data, &order)
		require.NoError(t, err)

		assert.Equal(t, int64(8900), order.Total, "应按加购时的快照价结算")

		t.Logf("✓ 价格快照生效: 改价后仍按%d分结算", order.Total)
	})
}

// TestCheckoutConcurrency 测试并发结账防超卖
func TestCheckoutConcurrency(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	t.Run("并发结账防超卖（5库存，10个买家）", func(t *testing.T) {
		bookID := PublishTestBook(t, adminToken, "《抢购测试》", 5)

		// 10个买家各自加购1件
		buyers := 10
		tokens := make([]string, buyers)
		for i := 0; i < buyers; i++ {
			_, token := RegisterTestUser(t, fmt.Sprintf("rush_buyer%d", i+1))
			AddToCart(t, token, bookID, 1)
			tokens[i] = token
		}

		var (
			wg           sync.WaitGroup
			mu           sync.Mutex
			successCount int
			failCount    int
		)

		// 同时结账
		for i, token := range tokens {
			wg.Add(1)
			go func(idx int, userToken string) {
				defer wg.Done()

				resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
					"payment_method": "mbway",
				}, userToken)

				mu.Lock()
				if resp.Code == 0 {
					successCount++
					t.Logf("  [买家%02d] ✓ 抢购成功", idx+1)
				} else {
					failCount++
					t.Logf("  [买家%02d] ✗ 抢购失败: %s", idx+1, resp.Message)
				}
				mu.Unlock()
			}(i, token)
		}
		wg.Wait()

		// SELECT FOR UPDATE保证成功数严格等于库存数
		assert.Equal(t, 5, successCount, "成功订单数应等于库存数")
		assert.Equal(t, 5, failCount, "其余结账应因库存不足失败")

		// 最终库存归零
		bookResp := GetJSON(t, fmt.Sprintf("%s/books/%d", BaseURL, bookID), "")
		require.Equal(t, 0, bookResp.Code)

		var book BookData
		err := json.Unmarshal(bookResp.Data, &book)
		require.NoError(t, err)
		assert.Zero(t, book.Stock, "库存应恰好卖空")

		t.Logf("✓ 防超卖通过: 成功%d, 失败%d, 剩余库存%d", successCount, failCount, book.Stock)
	})
}

// TestOrderQuery 测试订单查询
func TestOrderQuery(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	// 造一个订单
	checkoutOrder := func(t *testing.T, token string, bookTitle string) CheckoutData {
		bookID := PublishTestBook(t, adminToken, bookTitle, 10)
		AddToCart(t, token, bookID, 2)

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "credit_card",
		}, token)
		require.Equal(t, 0, resp.Code, "结账应该成功: %s", resp.Message)

		var order CheckoutData
		err := json.Unmarshal(resp.Data, &order)
		require.NoError(t, err)
		return order
	}

	t.Run("我的订单列表", func(t *testing.T) {
		_, token := RegisterTestUser(t, "order_list")
		created := checkoutOrder(t, token, "《列表订单测试》")

		resp := GetJSON(t, BaseURL+"/orders", token)
		require.Equal(t, 0, resp.Code)

		var list struct {
			List []struct {
				ID        uint   `json:"id"`
				Reference string `json:"reference"`
			} `json:"list"`
			Total int64 `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &list)
		require.NoError(t, err)

		require.Equal(t, int64(1), list.Total)
		assert.Equal(t, created.OrderID, list.List[0].ID)
		assert.Equal(t, created.Reference, list.List[0].Reference)

		t.Logf("✓ 订单列表正确，共%d单", list.Total)
	})

	t.Run("订单详情含行快照", func(t *testing.T) {
		_, token := RegisterTestUser(t, "order_detail")
		created := checkoutOrder(t, token, "《详情订单测试》")

		resp := GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, created.OrderID), token)
		require.Equal(t, 0, resp.Code, "详情查询应该成功: %s", resp.Message)

		var detail struct {
			ID    uint `json:"id"`
			Items []struct {
				Title     string `json:"title"`
				Quantity  int    `json:"quantity"`
				UnitPrice int64  `json:"unit_price"`
				Subtotal  int64  `json:"subtotal"`
			} `json:"items"`
			Total int64 `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &detail)
		require.NoError(t, err)

		require.Len(t, detail.Items, 1)
		assert.Equal(t, 2, detail.Items[0].Quantity)
		assert.Equal(t, detail.Items[0].UnitPrice*2, detail.Items[0].Subtotal)
		assert.Equal(t, detail.Items[0].Subtotal, detail.Total)

		t.Logf("✓ 订单详情正确: %s x%d", detail.Items[0].Title, detail.Items[0].Quantity)
	})

	t.Run("他人订单不可见", func(t *testing.T) {
		_, ownerToken := RegisterTestUser(t, "order_owner")
		created := checkoutOrder(t, ownerToken, "《越权订单测试》")

		_, otherToken := RegisterTestUser(t, "order_other")
		resp := GetJSON(t, fmt.Sprintf("%s/orders/%d", BaseURL, created.OrderID), otherToken)

		// 越权访问按"不存在"处理，不暴露订单存在性
		assert.NotEqual(t, 0, resp.Code, "他人订单应该不可见")

		t.Logf("✓ 他人订单正确返回错误: %s", resp.Message)
	})

	t.Run("管理员可查全量订单", func(t *testing.T) {
		_, token := RegisterTestUser(t, "order_adminview")
		checkoutOrder(t, token, "《管理端订单测试》")

		resp := GetJSON(t, BaseURL+"/admin/orders", adminToken)
		require.Equal(t, 0, resp.Code, "管理端列表应该成功: %s", resp.Message)

		var list struct {
			Total int64 `json:"total"`
		}
		err := json.Unmarshal(resp.Data, &list)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, list.Total, int64(1))

		t.Logf("✓ 管理端订单列表正确，共%d单", list.Total)
	})
}

// TestOrderManagement 测试订单状态流转与支付切换
func TestOrderManagement(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	createOrder := func(t *testing.T, title string) CheckoutData {
		_, token := RegisterTestUser(t, "order_mgmt")
		bookID := PublishTestBook(t, adminToken, title, 10)
		AddToCart(t, token, bookID, 1)

		resp := PostJSON(t, BaseURL+"/cart/checkout", map[string]string{
			"payment_method": "multibanco",
		}, token)
		require.Equal(t, 0, resp.Code)

		var order CheckoutData
		err := json.Unmarshal(resp.Data, &order)
		require.NoError(t, err)
		return order
	}

	statusURL := func(id uint) string {
		return fmt.Sprintf("%s/admin/orders/%d/status", BaseURL, id)
	}

	t.Run("待发货到已发货到已送达", func(t *testing.T) {
		order := createOrder(t, "《发货流转测试》")

		// 1(待发货) → 2(已发货)
		resp := PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 2}, adminToken)
		require.Equal(t, 0, resp.Code, "发货应该成功: %s", resp.Message)

		var detail struct {
			Status int `json:"status"`
		}
		err := json.Unmarshal(resp.Data, &detail)
		require.NoError(t, err)
		assert.Equal(t, 2, detail.Status)

		// 2(已发货) → 3(已送达)
		resp = PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 3}, adminToken)
		require.Equal(t, 0, resp.Code, "送达应该成功: %s", resp.Message)

		t.Logf("✓ 状态流转成功: 1→2→3")
	})

	t.Run("待发货可取消", func(t *testing.T) {
		order := createOrder(t, "《取消测试》")

		resp := PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 4}, adminToken)
		require.Equal(t, 0, resp.Code, "取消应该成功: %s", resp.Message)

		t.Logf("✓ 待发货订单取消成功")
	})

	t.Run("非法流转应失败", func(t *testing.T) {
		order := createOrder(t, "《非法流转测试》")

		// 待发货不能直接标记已送达
		resp := PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 3}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "待发货不应能直接送达")

		// 已发货后不能再取消
		resp = PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 2}, adminToken)
		require.Equal(t, 0, resp.Code)

		resp = PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 4}, adminToken)
		assert.NotEqual(t, 0, resp.Code, "已发货订单不应能取消")

		t.Logf("✓ 非法流转正确被拒绝: %s", resp.Message)
	})

	t.Run("支付状态切换", func(t *testing.T) {
		order := createOrder(t, "《支付切换测试》")

		url := fmt.Sprintf("%s/admin/orders/%d/payment", BaseURL, order.OrderID)

		resp := PutJSON(t, url, nil, adminToken)
		require.Equal(t, 0, resp.Code, "标记已支付应该成功: %s", resp.Message)

		var detail struct {
			Paid bool `json:"paid"`
		}
		err := json.Unmarshal(resp.Data, &detail)
		require.NoError(t, err)
		assert.True(t, detail.Paid, "首次切换应标记为已支付")

		// 再切一次翻回未支付
		resp = PutJSON(t, url, nil, adminToken)
		require.Equal(t, 0, resp.Code)
		err = json.Unmarshal(resp.Data, &detail)
		require.NoError(t, err)
		assert.False(t, detail.Paid, "再次切换应翻回未支付")

		t.Logf("✓ 支付状态切换正确")
	})

	t.Run("普通用户无权改状态", func(t *testing.T) {
		order := createOrder(t, "《权限测试》")
		_, userToken := RegisterTestUser(t, "order_nopriv")

		resp := PutJSON(t, statusURL(order.OrderID), map[string]int{"status": 2}, userToken)
		assert.NotEqual(t, 0, resp.Code, "普通用户不应能改订单状态")

		t.Logf("✓ 普通用户改状态正确被拒绝: %s", resp.Message)
	})
}
