package xapp

import (
	"errors"
	"fmt"

	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
)

var (
	// ErrNilServable 表示注册了 nil 组件。
	ErrNilServable = errors.New("xapp: nil servable")

	// ErrEmptyName 表示组件名称为空。
	ErrEmptyName = errors.New("xapp: empty component name")

	// ErrDuplicateComponent 表示组件名称已被注册。
	// 具体错误类型为 *DuplicateComponentError。
	ErrDuplicateComponent = errors.New("xapp: duplicate component")

	// ErrRegistryFrozen 表示 App 已开始运行，注册表只读。
	ErrRegistryFrozen = errors.New("xapp: registry is frozen")

	// ErrNotIdle 表示 App 已经运行过。App 只能 Run 一次。
	ErrNotIdle = errors.New("xapp: app is not idle")

	// ErrUnitFailure 匹配所有 *UnitFailure。
	ErrUnitFailure = errors.New("xapp: component failed")

	// ErrDrainIncomplete 表示 drain 超时，仍有组件未退出。
	ErrDrainIncomplete = xrun.ErrDrainIncomplete
)

// DuplicateComponentError 描述重复注册的组件名称。
type DuplicateComponentError struct {
	Name string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("xapp: duplicate component %q", e.Name)
}

// Is 支持 errors.Is(err, ErrDuplicateComponent)。
func (e *DuplicateComponentError) Is(target error) bool {
	return target == ErrDuplicateComponent
}

// UnitFailure 记录单个组件的失败原因。
type UnitFailure struct {
	Name  string
	Cause error
}

func (e *UnitFailure) Error() string {
	return fmt.Sprintf("component %q failed: %v", e.Name, e.Cause)
}

// Is 支持 errors.Is(err, ErrUnitFailure)。
func (e *UnitFailure) Is(target error) bool {
	return target == ErrUnitFailure
}

func (e *UnitFailure) Unwrap() error {
	return e.Cause
}

// PanicError 是组件 panic 被恢复后的失败原因。
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap 在 panic 值本身是 error 时返回它。
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
