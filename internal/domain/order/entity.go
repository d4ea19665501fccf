package order

import (
	"time"
)

// Status 订单状态
// 设计说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 定义为具名类型,便于挂方法
// 3. 状态值1-4递增,便于理解流转方向
type Status int

const (
	StatusPending   Status = 1 // 待处理
	StatusShipped   Status = 2 // 已发货
	StatusDelivered Status = 3 // 已送达
	StatusCancelled Status = 4 // 已取消
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "待处理"
	case StatusShipped:
		return "已发货"
	case StatusDelivered:
		return "已送达"
	case StatusCancelled:
		return "已取消"
	default:
		return "未知状态"
	}
}

// IsValid 是否为已定义的状态值
func (s Status) IsValid() bool {
	return s >= StatusPending && s <= StatusCancelled
}

// 支付方式
// 说明:结账时由客户端指定,只做白名单校验,支付本身是外部协作方
const (
	PaymentMBWay        = "mbway"
	PaymentCreditCard   = "credit_card"
	PaymentMultibanco   = "multibanco"
	PaymentBankTransfer = "bank_transfer"
)

// IsValidPaymentMethod 支付方式白名单校验
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMBWay, PaymentCreditCard, PaymentMultibanco, PaymentBankTransfer:
		return true
	}
	return false
}

// Order 订单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,Item是子实体,二者只能作为整体创建
// 2. 订单只由结账管道产生,创建后不可增删行——
//    后续仅有支付翻转与状态流转两条写路径
// 3. Total冗余自各行快照价之和(避免重复计算,防止改价影响历史订单)
// 4. 携带软删除标记但没有业务路径置位它,读取侧统一过滤
type Order struct {
	ID            uint
	Reference     string // 对外展示的订单参考号
	BuyerID       uint   // 买家(内部用户ID)
	BuyerName     string // 买家姓名(读取时联表填充)
	PaymentMethod string
	Paid          bool
	Status        Status
	Total         int64 // 订单总金额(分),冗余字段
	Items         []Item
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item 订单行
// 设计说明:
// 1. 不是独立聚合根,必须通过Order访问
// 2. UnitPrice复制自购物车行的快照价(不是下单时的图书实时价),
//    图书后续改价不影响历史订单
// 3. Title/Genre为读取时联表填充的展示字段,写入时忽略
type Item struct {
	ID        uint
	OrderID   uint
	BookID    uint
	Quantity  int   // 恒>=1
	UnitPrice int64 // 购物车行快照单价(分)
	Title     string
	Genre     string
}

// NewOrder 创建新订单(工厂方法)
// 说明:初始状态Pending、未支付,创建时间取UTC
func NewOrder(buyerID uint, paymentMethod string, items []Item) *Order {
	now := time.Now().UTC()
	o := &Order{
		Reference:     GenerateReference(),
		BuyerID:       buyerID,
		PaymentMethod: paymentMethod,
		Paid:          false,
		Status:        StatusPending,
		Items:         items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	o.Total = o.CalculateTotal()
	return o
}

// CanTransitionTo 检查是否可以转换到目标状态
// 状态机设计,防止非法状态跳转(如已送达跳回待处理)
func (o *Order) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusShipped, StatusCancelled}, // 待处理→已发货/已取消
		StatusShipped:   {StatusDelivered},                // 已发货→已送达
		StatusDelivered: {},                               // 终态
		StatusCancelled: {},                               // 终态
	}

	allowed, exists := transitions[o.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == target {
			return true
		}
	}
	return false
}

// TransitionTo 状态转换
func (o *Order) TransitionTo(target Status) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	if !o.CanTransitionTo(target) {
		return ErrInvalidStatusTransition
	}
	o.Status = target
	o.UpdatedAt = time.Now().UTC()
	return nil
}

// TogglePayment 翻转支付标记(领域行为)
// 注意:对已取消订单也允许翻转,是否合理由调用方裁量
func (o *Order) TogglePayment() {
	o.Paid = !o.Paid
	o.UpdatedAt = time.Now().UTC()
}

// CalculateTotal 按订单行快照价计算总金额
func (o *Order) CalculateTotal() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * int64(item.Quantity)
	}
	return total
}

// IsOwnedBy 检查订单是否属于指定用户(防止越权访问)
func (o *Order) IsOwnedBy(userID uint) bool {
	return o.BuyerID == userID
}
