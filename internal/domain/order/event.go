package order

import (
	"context"
	"time"
)

// CreatedEvent 订单创建领域事件
// 结账事务提交后发布,下游(通知、报表)异步消费
type CreatedEvent struct {
	OrderID    uint      `json:"order_id"`
	Reference  string    `json:"reference"`
	BuyerID    uint      `json:"buyer_id"`
	TotalCents int64     `json:"total_cents"`
	ItemCount  int       `json:"item_count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewCreatedEvent 从订单构造创建事件
func NewCreatedEvent(o *Order) CreatedEvent {
	return CreatedEvent{
		OrderID:    o.ID,
		Reference:  o.Reference,
		BuyerID:    o.BuyerID,
		TotalCents: o.Total,
		ItemCount:  len(o.Items),
		OccurredAt: time.Now().UTC(),
	}
}

// EventPublisher 订单事件发布接口
// 由infrastructure/messaging实现;发布是尽力而为,
// 失败由调用方记日志,不影响订单本身
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event CreatedEvent) error
}
