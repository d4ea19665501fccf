// Package rabbitmq 提供基于RabbitMQ的订单事件发布
//
// 结账事务提交后发布order.created事件(Topic Exchange),
// 下游(通知、报表)各自绑定队列消费,与主流程异步解耦。
// 事件发布是尽力而为:发布失败只记日志,不回滚订单。
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/circuitbreaker"
)

// 路由键
const (
	RoutingKeyOrderCreated = "order.created"
)

// Publisher 订单事件发布者
// 发布路径由熔断器保护:RabbitMQ不可用时快速失败,
// 不让结账响应被发布超时拖慢
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	breaker  *circuitbreaker.CircuitBreaker
}

// NewPublisher 创建订单事件发布者
// 声明Topic类型的持久化Exchange,与消费方约定一致
func NewPublisher(cfg config.RabbitMQConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// Durable Exchange:RabbitMQ重启后不丢失
	err = channel.ExchangeDeclare(
		cfg.Exchange, // Exchange名称
		"topic",      // Exchange类型
		true,         // Durable
		false,        // AutoDelete
		false,        // Internal
		false,        // NoWait
		nil,          // Arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("声明Exchange失败: %w", err)
	}

	breaker := circuitbreaker.NewCircuitBreaker("rabbitmq-publisher", circuitbreaker.Config{
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("[WARN] 熔断器%s状态变化: %s -> %s", name, from, to)
	})

	log.Printf("✓ 订单事件发布者已创建: Exchange=%s", cfg.Exchange)

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: cfg.Exchange,
		breaker:  breaker,
	}, nil
}

// PublishOrderCreated 发布订单创建事件
func (p *Publisher) PublishOrderCreated(ctx context.Context, event order.CreatedEvent) error {
	return p.publish(ctx, RoutingKeyOrderCreated, event)
}

// publish 发布事件(经熔断器)
func (p *Publisher) publish(ctx context.Context, routingKey string, event order.CreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("事件序列化失败: %w", err)
	}

	return p.breaker.Execute(func() error {
		return p.channel.PublishWithContext(
			ctx,
			p.exchange,
			routingKey,
			false, // Mandatory
			false, // Immediate
			amqp.Publishing{
				ContentType:  "application/json",
				Body:         body,
				DeliveryMode: amqp.Persistent, // 消息持久化
				Timestamp:    time.Now(),
			},
		)
	})
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
