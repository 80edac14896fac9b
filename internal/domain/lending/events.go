package lending

import (
	"context"
	"time"
)

// 借阅事件类型(同时作为消息的routing key)
const (
	EventBorrowed = "lending.borrowed"
	EventReturned = "lending.returned"
)

// Event 借阅事件,在事务提交后发布
type Event struct {
	Type          string    `json:"type"`
	TransactionID uint      `json:"transaction_id"`
	BookID        uint      `json:"book_id"`
	UserID        uint      `json:"user_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NewEvent 根据借阅记录构造事件
func NewEvent(eventType string, t *Transaction) Event {
	occurred := t.BorrowedAt
	if eventType == EventReturned && t.ReturnedAt != nil {
		occurred = *t.ReturnedAt
	}
	return Event{
		Type:          eventType,
		TransactionID: t.ID,
		BookID:        t.BookID,
		UserID:        t.UserID,
		OccurredAt:    occurred,
	}
}

// EventPublisher 事件发布接口,实现在infrastructure/messaging
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher 不启用消息队列时使用
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
