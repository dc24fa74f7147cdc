package xbreaker

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// 熔断器状态，直接复用 gobreaker 的定义。
type (
	State  = gobreaker.State
	Counts = gobreaker.Counts
)

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

// TripPolicy 判定 Closed 状态下是否应当打开熔断器。
type TripPolicy interface {
	ReadyToTrip(counts Counts) bool
}

// Breaker 封装 gobreaker.CircuitBreaker，供周期性组件保护下游调用。
type Breaker struct {
	name          string
	tripPolicy    TripPolicy
	timeout       time.Duration
	interval      time.Duration
	maxRequests   uint32
	onStateChange func(name string, from, to State)

	cb *gobreaker.CircuitBreaker[any]
}

// Option 配置 Breaker。
type Option func(*Breaker)

// WithTripPolicy 设置熔断判定策略，默认连续失败 5 次。nil 忽略。
func WithTripPolicy(p TripPolicy) Option {
	return func(b *Breaker) {
		if p != nil {
			b.tripPolicy = p
		}
	}
}

// WithTimeout 设置 Open 到 HalfOpen 的等待时间，默认 60s。
func WithTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithInterval 设置 Closed 状态下清零计数的周期，0 表示不清零。
func WithInterval(d time.Duration) Option {
	return func(b *Breaker) {
		if d >= 0 {
			b.interval = d
		}
	}
}

// WithMaxRequests 设置 HalfOpen 状态下允许通过的请求数，默认 1。
func WithMaxRequests(n uint32) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.maxRequests = n
		}
	}
}

// WithOnStateChange 设置状态变化回调。
func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

// New 创建熔断器。
func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:        name,
		tripPolicy:  NewConsecutiveFailures(5),
		timeout:     60 * time.Second,
		maxRequests: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	st := gobreaker.Settings{
		Name:        b.name,
		MaxRequests: b.maxRequests,
		Interval:    b.interval,
		Timeout:     b.timeout,
		ReadyToTrip: b.tripPolicy.ReadyToTrip,
		// 上游取消不是下游故障，不计入统计。
		IsExcluded: func(err error) bool {
			return isContextError(err)
		},
	}
	if b.onStateChange != nil {
		st.OnStateChange = b.onStateChange
	}
	b.cb = gobreaker.NewCircuitBreaker[any](st)
	return b
}

// Do 在熔断器保护下执行 fn。
// ctx 已结束时直接返回 ctx 错误；熔断器拒绝时返回 *BreakerError。
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if b == nil {
		return ErrNilBreaker
	}
	if ctx == nil {
		return ErrNilContext
	}
	if fn == nil {
		return ErrNilFunc
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.cb.Execute(func() (any, error) {
		return nil, fn(ctx)
	})
	return wrapBreakerError(err, b.name)
}

// Name 返回熔断器名称。
func (b *Breaker) Name() string {
	return b.name
}

// State 返回当前状态。
func (b *Breaker) State() State {
	return b.cb.State()
}

// Counts 返回当前窗口的计数。
func (b *Breaker) Counts() Counts {
	return b.cb.Counts()
}
