package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

// fakeClock 手动推进的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestBreaker(threshold uint32) (*CircuitBreaker, *fakeClock, *[]string) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	var transitions []string
	cb := New("events", Config{
		FailureThreshold: threshold,
		Timeout:          10 * time.Second,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})
	cb.now = clock.Now
	return cb, clock, &transitions
}

func TestCircuitBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb, _, _ := newTestBreaker(3)

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().Successes)
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb, _, transitions := newTestBreaker(3)

	t.Run("成功会重置连续失败", func(t *testing.T) {
		_ = cb.Execute(func() error { return errBroker })
		_ = cb.Execute(func() error { return errBroker })
		require.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
		assert.Equal(t, uint32(0), cb.Counts().ConsecutiveFailures)
	})

	t.Run("连续失败达到阈值后熔断", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(func() error { return errBroker }), errBroker)
		}
		assert.Equal(t, StateOpen, cb.State())
		assert.Equal(t, []string{"closed->open"}, *transitions)
	})

	t.Run("熔断中不调用fn", func(t *testing.T) {
		called := false
		err := cb.Execute(func() error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrOpenState)
		assert.False(t, called)
		t.Logf("✓ 熔断后快速失败")
	})
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	t.Run("探测成功后恢复", func(t *testing.T) {
		cb, clock, transitions := newTestBreaker(1)
		_ = cb.Execute(func() error { return errBroker })
		require.Equal(t, StateOpen, cb.State())

		clock.Advance(10 * time.Second)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
		assert.Equal(t, []string{"closed->open", "open->half_open", "half_open->closed"}, *transitions)
	})

	t.Run("探测失败重新熔断", func(t *testing.T) {
		cb, clock, _ := newTestBreaker(1)
		_ = cb.Execute(func() error { return errBroker })
		clock.Advance(10 * time.Second)

		_ = cb.Execute(func() error { return errBroker })
		assert.Equal(t, StateOpen, cb.State())

		clock.Advance(5 * time.Second)
		assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpenState, "新的熔断周期重新计时")
	})

	t.Run("半开状态只放行一个探测请求", func(t *testing.T) {
		cb, clock, _ := newTestBreaker(1)
		_ = cb.Execute(func() error { return errBroker })
		clock.Advance(10 * time.Second)

		probe := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- cb.Execute(func() error {
				<-probe
				return nil
			})
		}()

		// 等待探测请求进入fn
		require.Eventually(t, func() bool { return cb.Counts().Requests == 1 }, time.Second, time.Millisecond)
		assert.ErrorIs(t, cb.Execute(func() error { return nil }), ErrOpenState)

		close(probe)
		require.NoError(t, <-done)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestNew_Defaults(t *testing.T) {
	cb := New("events", Config{})
	assert.Equal(t, uint32(5), cb.config.FailureThreshold)
	assert.Equal(t, 30*time.Second, cb.config.Timeout)
	assert.Equal(t, uint32(1), cb.config.HalfOpenRequests)
}
