package rabbitmq

import (
	"context"

	"github.com/xiebiao/bookshop/internal/domain/order"
)

// 接口实现校验
var (
	_ order.EventPublisher = (*Publisher)(nil)
	_ order.EventPublisher = NopPublisher{}
)

// NopPublisher 空发布者
// RabbitMQ未启用(rabbitmq.enabled=false)时注入,事件直接丢弃
type NopPublisher struct{}

// PublishOrderCreated 丢弃事件
func (NopPublisher) PublishOrderCreated(ctx context.Context, event order.CreatedEvent) error {
	return nil
}
