package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 购物车集成测试
// 购物车按用户隔离，每个子测试注册独立用户避免互相干扰

// TestCartAddItem 测试加购与数量合并
func TestCartAddItem(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	t.Run("首次加购", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_add")
		bookID := PublishTestBook(t, adminToken, "《加购测试》", 20)

		resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
			"book_id":  bookID,
			"quantity": 2,
		}, token)
		require.Equal(t, 0, resp.Code, "加购应该成功: %s", resp.Message)

		var data struct {
			BookID     uint `json:"book_id"`
			Quantity   int  `json:"quantity"`
			TotalUnits int  `json:"total_units"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.Equal(t, bookID, data.BookID)
		assert.Equal(t, 2, data.Quantity)
		assert.Equal(t, 2, data.TotalUnits)

		t.Logf("✓ 加购成功，车内共%d件", data.TotalUnits)
	})

	t.Run("重复加购合并数量", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_merge")
		bookID := PublishTestBook(t, adminToken, "《合并测试》", 20)

		AddToCart(t, token, bookID, 2)

		// 同一本书再次加购，应合并为一行
		resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
			"book_id":  bookID,
			"quantity": 3,
		}, token)
		require.Equal(t, 0, resp.Code)

		var data struct {
			Quantity int `json:"quantity"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.Equal(t, 5, data.Quantity, "同一图书应合并到一行，数量累加")

		// 购物车视图确认只有一行
		viewResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, viewResp.Code)

		var view CartViewData
		err = json.Unmarshal(viewResp.Data, &view)
		require.NoError(t, err)

		assert.Len(t, view.Items, 1, "合并后应只有一行")
		assert.Equal(t, 5, view.TotalUnits)

		t.Logf("✓ 数量合并成功: 2+3=%d", view.TotalUnits)
	})

	t.Run("不存在的图书加购应失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_ghost")

		resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
			"book_id":  99999999,
			"quantity": 1,
		}, token)

		assert.NotEqual(t, 0, resp.Code, "不存在的图书应该加购失败")

		t.Logf("✓ 不存在的图书正确返回错误: %s", resp.Message)
	})

	t.Run("非法数量应失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_badqty")
		bookID := PublishTestBook(t, adminToken, "《数量校验》", 10)

		resp := PostJSON(t, BaseURL+"/cart/items", map[string]interface{}{
			"book_id":  bookID,
			"quantity": 0,
		}, token)

		assert.NotEqual(t, 0, resp.Code, "数量为0应该被拒绝")

		t.Logf("✓ 非法数量正确返回错误: %s", resp.Message)
	})
}

// TestCartRemoveItem 测试移除（每次减一件）
func TestCartRemoveItem(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	t.Run("数量大于1时减一件", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_dec")
		bookID := PublishTestBook(t, adminToken, "《减件测试》", 10)

		AddToCart(t, token, bookID, 3)

		resp := DeleteJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID), token)
		require.Equal(t, 0, resp.Code, "移除应该成功: %s", resp.Message)

		var data struct {
			Quantity   int `json:"quantity"`
			TotalUnits int `json:"total_units"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)

		assert.Equal(t, 2, data.Quantity, "每次移除只减一件")
		assert.Equal(t, 2, data.TotalUnits)

		t.Logf("✓ 减件成功: 3→%d", data.Quantity)
	})

	t.Run("最后一件移除后整行删除", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_del")
		bookID := PublishTestBook(t, adminToken, "《删行测试》", 10)

		AddToCart(t, token, bookID, 1)

		resp := DeleteJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID), token)
		require.Equal(t, 0, resp.Code)

		var data struct {
			Quantity int `json:"quantity"`
		}
		err := json.Unmarshal(resp.Data, &data)
		require.NoError(t, err)
		assert.Equal(t, 0, data.Quantity, "剩余数量应为0")

		// 视图确认行已消失
		viewResp := GetJSON(t, BaseURL+"/cart", token)
		require.Equal(t, 0, viewResp.Code)

		var view CartViewData
		err = json.Unmarshal(viewResp.Data, &view)
		require.NoError(t, err)
		assert.Empty(t, view.Items, "购物车应为空")

		t.Logf("✓ 最后一件移除后整行删除")
	})

	t.Run("移除不在车内的图书应失败", func(t *testing.T) {
		_, token := RegisterTestUser(t, "cart_miss")
		bookID := PublishTestBook(t, adminToken, "《未加购测试》", 10)

		resp := DeleteJSON(t, fmt.Sprintf("%s/cart/items/%d", BaseURL, bookID), token)
		assert.NotEqual(t, 0, resp.Code, "移除不在车内的图书应该失败")

		t.Logf("✓ 移除不在车内的图书正确返回错误: %s", resp.Message)
	})
}

// TestCartBadge 测试角标（缓存旁路读）
func TestCartBadge(t *testing.T) {
	RequireServer(t)
	adminToken := LoginAdmin(t)

	t.Run("角标随加购更新", func(t *testing.T) {
		_, token := RegisterTestUser(t, "badge_user")
		bookID1 := PublishTestBook(t, adminToken, "《角标测试A》", 10)
		bookID2 := PublishTestBook(t, adminToken, "《角标测试B》", 10)

		// 空车角标为0
		resp := GetJSON(t, BaseURL+"/cart/badge", token)
		require.Equal(t, 0, resp.Code)

		var badge struct {
			Count int `json:"count"`
		}
		err := json.Unmarshal(resp.Data, &badge)
		require.NoError(t, err)
		assert.Equal(t, 0, badge.Count, "空车角标应为0")

		AddToCart(t, token, bookID1, 2)
		AddToCart(t, token, bookID2, 3)

		// 写路径失效缓存后，角标应立即反映新总数
		resp = GetJSON(t, BaseURL+"/cart/badge", token)
		require.Equal(t, 0, resp.Code)
		err = json.Unmarshal(resp.Data, &badge)
		require.NoError(t, err)
		assert.Equal(t, 5, badge.Count, "角标应为车内总件数")

		// 连续读两次应一致（第二次走缓存）
		resp = GetJSON(t, BaseURL+"/cart/badge", token)
		require.Equal(t, 0, resp.Code)
		err = json.Unmarshal(resp.Data, &badge)
		require.NoError(t, err)
		assert.Equal(t, 5, badge.Count)

		t.Logf("✓ 角标正确: %d件", badge.Count)
	})
}
