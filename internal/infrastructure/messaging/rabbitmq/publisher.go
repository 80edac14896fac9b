// Package rabbitmq 借阅事件发布(RabbitMQ topic exchange)
//
// 事件类型即routing key(lending.borrowed / lending.returned),
// 下游(通知、统计)按lending.*绑定自己的队列。
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xiebiao/library/internal/domain/lending"
)

// ExchangeType 借阅事件使用topic交换机,支持通配符订阅
const ExchangeType = "topic"

// EventPublisher 借阅事件发布者
type EventPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu      sync.Mutex // Channel不能并发发布
	channel *amqp.Channel
}

var _ lending.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher 连接RabbitMQ并声明交换机
func NewEventPublisher(url, exchange string) (*EventPublisher, error) {
	// 1. 连接RabbitMQ
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	// 2. 创建Channel
	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// 3. 声明持久化交换机
	if err := DeclareExchange(channel, exchange); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, err
	}

	slog.Info("event publisher ready", "exchange", exchange, "type", ExchangeType)

	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}, nil
}

// DeclareExchange 声明借阅事件交换机(发布方与消费方保持一致)
func DeclareExchange(channel *amqp.Channel, exchange string) error {
	err := channel.ExchangeDeclare(
		exchange,     // 名称
		ExchangeType, // 类型
		true,         // Durable
		false,        // AutoDelete
		false,        // Internal
		false,        // NoWait
		nil,
	)
	if err != nil {
		return fmt.Errorf("声明Exchange失败: %w", err)
	}
	return nil
}

// Publish 发布借阅事件
// 消息持久化(DeliveryMode=Persistent),MessageId使用借阅记录ID+事件类型,方便消费方去重
func (p *EventPublisher) Publish(ctx context.Context, event lending.Event) error {
	body, err := jsoniter.Marshal(event)
	if err != nil {
		return fmt.Errorf("消息序列化失败: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // Exchange
		event.Type, // Routing Key
		false,      // Mandatory
		false,      // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    fmt.Sprintf("%s:%d", event.Type, event.TransactionID),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	slog.DebugContext(ctx, "event published", "type", event.Type, "transaction_id", event.TransactionID)
	return nil
}

// Close 关闭发布者
func (p *EventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
