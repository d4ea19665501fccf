package order

import (
	"errors"
	"strings"
	"testing"
)

func testItems() []Item {
	return []Item{
		{BookID: 1, Quantity: 2, UnitPrice: 8900},
		{BookID: 2, Quantity: 1, UnitPrice: 12900},
	}
}

// TestNewOrder 测试订单工厂方法
func TestNewOrder(t *testing.T) {
	o := NewOrder(42, PaymentMBWay, testItems())

	if o.Status != StatusPending {
		t.Errorf("新订单状态应为待处理，实际%v", o.Status)
	}
	if o.Paid {
		t.Error("新订单应为未支付")
	}
	if o.BuyerID != 42 {
		t.Errorf("买家ID错误: %d", o.BuyerID)
	}
	// 2*8900 + 1*12900 = 30700
	if o.Total != 30700 {
		t.Errorf("总金额应为30700分，实际%d", o.Total)
	}
	if !strings.HasPrefix(o.Reference, "ORD") {
		t.Errorf("订单参考号应以ORD开头: %s", o.Reference)
	}
	if o.CreatedAt.Location().String() != "UTC" {
		t.Errorf("创建时间应为UTC: %v", o.CreatedAt.Location())
	}
}

// TestCalculateTotal 测试按快照价计算总金额
func TestCalculateTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  int64
	}{
		{"空订单", nil, 0},
		{"单行", []Item{{Quantity: 3, UnitPrice: 1000}}, 3000},
		{"多行", testItems(), 30700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Items: tt.items}
			if got := o.CalculateTotal(); got != tt.want {
				t.Errorf("期望%d，实际%d", tt.want, got)
			}
		})
	}
}

// TestStatusTransitions 测试状态机的全部流转组合
func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false}, // 不能跳过发货
		{StatusPending, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false}, // 发货后不可取消
		{StatusShipped, StatusPending, false},
		{StatusDelivered, StatusCancelled, false}, // 终态
		{StatusDelivered, StatusShipped, false},
		{StatusCancelled, StatusPending, false}, // 终态
		{StatusCancelled, StatusShipped, false},
	}

	for _, tt := range tests {
		name := tt.from.String() + "→" + tt.to.String()
		t.Run(name, func(t *testing.T) {
			o := &Order{Status: tt.from}
			err := o.TransitionTo(tt.to)

			if tt.allowed {
				if err != nil {
					t.Errorf("应允许流转，实际报错: %v", err)
				}
				if o.Status != tt.to {
					t.Errorf("流转后状态应为%v，实际%v", tt.to, o.Status)
				}
			} else {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Errorf("应返回非法流转错误，实际: %v", err)
				}
				if o.Status != tt.from {
					t.Errorf("流转失败不应改变状态，实际%v", o.Status)
				}
			}
		})
	}
}

// TestTransitionToInvalidStatus 测试未定义的目标状态
func TestTransitionToInvalidStatus(t *testing.T) {
	o := &Order{Status: StatusPending}

	for _, target := range []Status{0, 5, -1} {
		if err := o.TransitionTo(target); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("目标状态%d应返回ErrInvalidStatus，实际: %v", target, err)
		}
	}
}

// TestTogglePayment 测试支付标记翻转
func TestTogglePayment(t *testing.T) {
	o := NewOrder(1, PaymentCreditCard, testItems())

	o.TogglePayment()
	if !o.Paid {
		t.Error("第一次翻转应标记为已支付")
	}

	o.TogglePayment()
	if o.Paid {
		t.Error("第二次翻转应回到未支付")
	}

	// 已取消订单也允许翻转
	o.Status = StatusCancelled
	o.TogglePayment()
	if !o.Paid {
		t.Error("已取消订单也应允许翻转支付标记")
	}
}

// TestIsValidPaymentMethod 测试支付方式白名单
func TestIsValidPaymentMethod(t *testing.T) {
	valid := []string{PaymentMBWay, PaymentCreditCard, PaymentMultibanco, PaymentBankTransfer}
	for _, m := range valid {
		if !IsValidPaymentMethod(m) {
			t.Errorf("%s应为合法支付方式", m)
		}
	}

	invalid := []string{"", "paypal", "MBWAY", "cash"}
	for _, m := range invalid {
		if IsValidPaymentMethod(m) {
			t.Errorf("%s不应为合法支付方式", m)
		}
	}
}

// TestIsOwnedBy 测试归属检查
func TestIsOwnedBy(t *testing.T) {
	o := &Order{BuyerID: 7}

	if !o.IsOwnedBy(7) {
		t.Error("买家本人应通过归属检查")
	}
	if o.IsOwnedBy(8) {
		t.Error("其他用户不应通过归属检查")
	}
}

// TestStatusString 测试状态文案
func TestStatusString(t *testing.T) {
	tests := map[Status]string{
		StatusPending:   "待处理",
		StatusShipped:   "已发货",
		StatusDelivered: "已送达",
		StatusCancelled: "已取消",
		Status(99):      "未知状态",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("状态%d文案应为%s，实际%s", s, want, got)
		}
	}
}
