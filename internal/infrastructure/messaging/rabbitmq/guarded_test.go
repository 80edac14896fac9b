package rabbitmq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

type failingPublisher struct {
	calls int
	err   error
}

func (p *failingPublisher) Publish(context.Context, lending.Event) error {
	p.calls++
	return p.err
}

func TestGuardedPublisher(t *testing.T) {
	next := &failingPublisher{err: errors.New("connection closed")}
	p := NewGuardedPublisher(next, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event := lending.Event{Type: lending.EventBorrowed, TransactionID: 1, BookID: 2, UserID: 3, OccurredAt: time.Now()}

	for i := 0; i < breakerFailureThreshold; i++ {
		assert.ErrorIs(t, p.Publish(context.Background(), event), next.err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, p.State())

	// 熔断后不再调用下游
	assert.ErrorIs(t, p.Publish(context.Background(), event), circuitbreaker.ErrOpenState)
	assert.Equal(t, breakerFailureThreshold, next.calls)
	t.Logf("✓ 连续失败%d次后熔断", breakerFailureThreshold)
}
