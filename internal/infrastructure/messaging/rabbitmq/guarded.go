package rabbitmq

import (
	"context"
	"log/slog"
	"time"

	"github.com/xiebiao/library/internal/domain/lending"
	"github.com/xiebiao/library/pkg/circuitbreaker"
)

// 事件发布熔断参数
const (
	breakerFailureThreshold = 5
	breakerTimeout          = 30 * time.Second
)

// GuardedPublisher 带熔断的事件发布
// 连续发布失败后熔断,熔断期间Publish直接返回circuitbreaker.ErrOpenState
type GuardedPublisher struct {
	next    lending.EventPublisher
	breaker *circuitbreaker.CircuitBreaker
}

var _ lending.EventPublisher = (*GuardedPublisher)(nil)

// NewGuardedPublisher 包装事件发布者
func NewGuardedPublisher(next lending.EventPublisher, logger *slog.Logger) *GuardedPublisher {
	breaker := circuitbreaker.New("lending-events", circuitbreaker.Config{
		FailureThreshold: breakerFailureThreshold,
		Timeout:          breakerTimeout,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return &GuardedPublisher{next: next, breaker: breaker}
}

func (p *GuardedPublisher) Publish(ctx context.Context, event lending.Event) error {
	return p.breaker.Execute(func() error {
		return p.next.Publish(ctx, event)
	})
}

// State 熔断器当前状态
func (p *GuardedPublisher) State() circuitbreaker.State {
	return p.breaker.State()
}
