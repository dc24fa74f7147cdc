package xbreaker

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

var (
	ErrNilBreaker = errors.New("xbreaker: nil breaker")
	ErrNilContext = errors.New("xbreaker: nil context")
	ErrNilFunc    = errors.New("xbreaker: nil func")

	// ErrOpenState 熔断器处于 Open 状态。
	ErrOpenState = gobreaker.ErrOpenState
	// ErrTooManyRequests HalfOpen 状态下探测请求已满。
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// BreakerError 表示请求被熔断器拒绝，而非下游本身失败。
// 实现 Retryable() == false，xretry 不会重试它。
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	return fmt.Sprintf("breaker %s: %v", e.Name, e.Err)
}

func (e *BreakerError) Unwrap() error {
	return e.Err
}

func (e *BreakerError) Retryable() bool {
	return false
}

// wrapBreakerError 只包装本熔断器直接返回的哨兵错误。
func wrapBreakerError(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case err == gobreaker.ErrOpenState: //nolint:errorlint // 只认直接返回值
		return &BreakerError{Err: err, Name: name, State: StateOpen}
	case err == gobreaker.ErrTooManyRequests: //nolint:errorlint // 同上
		return &BreakerError{Err: err, Name: name, State: StateHalfOpen}
	default:
		return err
	}
}

// IsOpen 判断 err 是否由 Open 状态的熔断器返回。
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState)
}

// IsBreakerError 判断 err 是否为熔断拒绝。
func IsBreakerError(err error) bool {
	var be *BreakerError
	return errors.As(err, &be)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
