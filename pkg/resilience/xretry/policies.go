package xretry

import "context"

// RetryPolicy 决定是否继续重试。
type RetryPolicy interface {
	// MaxAttempts 返回最大尝试次数（含首次），0 表示不限。
	MaxAttempts() int
	// ShouldRetry 在第 attempt 次（从 1 开始）失败后调用。
	ShouldRetry(ctx context.Context, attempt int, err error) bool
}

// FixedRetryPolicy 固定次数重试。
type FixedRetryPolicy struct {
	maxAttempts int
}

// NewFixedRetry 创建固定次数重试策略，maxAttempts 最小为 1。
func NewFixedRetry(maxAttempts int) *FixedRetryPolicy {
	return &FixedRetryPolicy{maxAttempts: max(maxAttempts, 1)}
}

func (p *FixedRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

func (p *FixedRetryPolicy) ShouldRetry(ctx context.Context, attempt int, err error) bool {
	return ctx.Err() == nil && attempt < p.maxAttempts && IsRetryable(err)
}

// AlwaysRetryPolicy 一直重试，直到 ctx 结束或遇到永久性错误。
type AlwaysRetryPolicy struct{}

// NewAlwaysRetry 创建无限重试策略。
func NewAlwaysRetry() *AlwaysRetryPolicy {
	return &AlwaysRetryPolicy{}
}

func (*AlwaysRetryPolicy) MaxAttempts() int {
	return 0
}

func (*AlwaysRetryPolicy) ShouldRetry(ctx context.Context, _ int, err error) bool {
	return ctx.Err() == nil && IsRetryable(err)
}

// NeverRetryPolicy 不重试。
type NeverRetryPolicy struct{}

// NewNeverRetry 创建不重试策略。
func NewNeverRetry() *NeverRetryPolicy {
	return &NeverRetryPolicy{}
}

func (*NeverRetryPolicy) MaxAttempts() int {
	return 1
}

func (*NeverRetryPolicy) ShouldRetry(context.Context, int, error) bool {
	return false
}

var (
	_ RetryPolicy = (*FixedRetryPolicy)(nil)
	_ RetryPolicy = (*AlwaysRetryPolicy)(nil)
	_ RetryPolicy = (*NeverRetryPolicy)(nil)
)
