package xserve

import (
	"errors"
	"fmt"
)

var (
	// ErrNilServer 表示组件未提供服务器。
	ErrNilServer = errors.New("xserve: nil server")
	// ErrNilFunc 表示组件未提供执行函数。
	ErrNilFunc = errors.New("xserve: nil func")
	// ErrInvalidInterval 表示 Ticker 间隔不大于 0。
	ErrInvalidInterval = errors.New("xserve: interval must be positive")
)

func panicErr(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", v)
}
