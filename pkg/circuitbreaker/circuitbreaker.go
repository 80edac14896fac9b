// Package circuitbreaker 熔断器
//
// 用于借阅事件发布:消息队列不可用时连续失败达到阈值即熔断,
// 之后的发布直接返回ErrOpenState,不再等待连接超时,借还请求不受拖累。
// 熔断超时后进入半开状态,放行少量探测请求,成功则恢复。
//
//	CLOSED --连续失败达到阈值--> OPEN --超时--> HALF_OPEN --成功--> CLOSED
//	                                           HALF_OPEN --失败--> OPEN
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpenState 熔断中,请求未执行
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置
type Config struct {
	// FailureThreshold 连续失败多少次后熔断
	FailureThreshold uint32
	// Timeout OPEN状态持续时间
	Timeout time.Duration
	// HalfOpenRequests 半开状态允许的探测请求数
	HalfOpenRequests uint32
	// OnStateChange 状态变化回调(在锁内调用,不要阻塞)
	OnStateChange func(name string, from, to State)
}

// Counts 当前状态下的统计
type Counts struct {
	Requests            uint32
	Successes           uint32
	Failures            uint32
	ConsecutiveFailures uint32
}

// CircuitBreaker 熔断器,并发安全
type CircuitBreaker struct {
	name   string
	config Config
	now    func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64 // 每次状态切换递增,丢弃切换前发出的请求结果
	counts     Counts
	openUntil  time.Time
}

// New 创建熔断器,未设置的配置项使用默认值(5次失败、30秒、1个探测请求)
func New(name string, config Config) *CircuitBreaker {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HalfOpenRequests == 0 {
		config.HalfOpenRequests = 1
	}
	return &CircuitBreaker{name: name, config: config, now: time.Now}
}

// Execute 在熔断器保护下执行fn
// 熔断中返回ErrOpenState且不调用fn,否则返回fn的结果
func (cb *CircuitBreaker) Execute(fn func() error) error {
	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn()
	cb.after(generation, err == nil)
	return err
}

// State 当前状态
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

// Counts 当前状态下的统计
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

// =========================================
// 辅助函数
// =========================================

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.current() {
	case StateOpen:
		return cb.generation, ErrOpenState
	case StateHalfOpen:
		if cb.counts.Requests >= cb.config.HalfOpenRequests {
			return cb.generation, ErrOpenState
		}
	}

	cb.counts.Requests++
	return cb.generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.current()
	if generation != cb.generation {
		return
	}

	if success {
		cb.counts.Successes++
		cb.counts.ConsecutiveFailures = 0
		if state == StateHalfOpen {
			cb.setState(StateClosed)
		}
		return
	}

	cb.counts.Failures++
	cb.counts.ConsecutiveFailures++
	if state == StateHalfOpen || cb.counts.ConsecutiveFailures >= cb.config.FailureThreshold {
		cb.setState(StateOpen)
	}
}

// current OPEN超时后切换为HALF_OPEN,调用方持有锁
func (cb *CircuitBreaker) current() State {
	if cb.state == StateOpen && !cb.now().Before(cb.openUntil) {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(state State) {
	if cb.state == state {
		return
	}

	prev := cb.state
	cb.state = state
	cb.generation++
	cb.counts = Counts{}
	if state == StateOpen {
		cb.openUntil = cb.now().Add(cb.config.Timeout)
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.name, prev, state)
	}
}
