package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而取消。
	// 使用 errors.Is(err, ErrSignal) 判断是否为信号触发。
	ErrSignal = errors.New("received signal")

	// ErrClosed 表示 Coordinator 已开始 drain，不再接受新单元。
	ErrClosed = errors.New("xrun: coordinator is draining")

	// ErrNilFunc 表示传入的单元函数为 nil。
	ErrNilFunc = errors.New("xrun: nil unit func")

	// ErrDrainIncomplete 表示在所有单元确认退出之前放弃了等待。
	ErrDrainIncomplete = errors.New("xrun: drain incomplete")
)

// SignalError 包含触发取消的具体信号。
//
//	var sigErr *xrun.SignalError
//	if errors.As(cause, &sigErr) {
//	    fmt.Printf("received signal: %v\n", sigErr.Signal)
//	}
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal) 判断。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

func (e *SignalError) Unwrap() error {
	return ErrSignal
}
