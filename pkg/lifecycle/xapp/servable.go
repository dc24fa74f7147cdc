package xapp

import (
	"context"

	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
)

// Servable 是托管在 App 中的组件。
//
// Name 必须非空且在 App 内唯一。Serve 持续运行直到任务完成或 g 报告取消，
// 之后应尽快返回：返回 nil 表示成功，返回 error 或 panic 表示失败。
// 取消请求之后返回包装了 context.Canceled 的错误视为正常退出。
type Servable interface {
	Name() string
	Serve(g xrun.Guard) error
}

// Func 将基于 context 的函数适配为 Servable。
// ctx 即 g.Context()，在关闭请求时取消。
func Func(name string, fn func(ctx context.Context) error) Servable {
	return &funcServable{name: name, fn: fn}
}

// GuardFunc 将直接接收 Guard 的函数适配为 Servable。
func GuardFunc(name string, fn func(g xrun.Guard) error) Servable {
	return &guardServable{name: name, fn: fn}
}

type funcServable struct {
	name string
	fn   func(ctx context.Context) error
}

func (f *funcServable) Name() string { return f.name }

func (f *funcServable) Serve(g xrun.Guard) error {
	if f.fn == nil {
		return xrun.ErrNilFunc
	}
	return f.fn(g.Context())
}

type guardServable struct {
	name string
	fn   func(g xrun.Guard) error
}

func (f *guardServable) Name() string { return f.name }

func (f *guardServable) Serve(g xrun.Guard) error {
	if f.fn == nil {
		return xrun.ErrNilFunc
	}
	return f.fn(g)
}
