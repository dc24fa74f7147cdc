package xretry

import "errors"

var (
	// ErrNilRetryer 表示在 nil *Retryer 上调用方法。
	ErrNilRetryer = errors.New("xretry: nil retryer")
	// ErrNilContext 表示传入了 nil context。
	ErrNilContext = errors.New("xretry: nil context")
	// ErrNilFunc 表示传入了 nil 操作函数。
	ErrNilFunc = errors.New("xretry: nil func")
)

// RetryableError 由错误自身声明是否可重试。
type RetryableError interface {
	error
	Retryable() bool
}

// PermanentError 标记不应重试的错误。
type PermanentError struct {
	Err error
}

// Permanent 将 err 标记为永久性错误。nil 返回 nil。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func (e *PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Retryable 总是返回 false。
func (e *PermanentError) Retryable() bool {
	return false
}

// IsRetryable 判断错误是否可重试：nil 不重试，实现 RetryableError 的按其声明，
// 其余默认可重试。
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}
