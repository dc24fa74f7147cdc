package xrun

import (
	"context"

	"github.com/omeyang/xboot/pkg/context/xctx"
)

// Guard 单元的取消句柄。
//
// 值类型，拷贝后观察同一个取消信号。零值 Guard 永远不会被取消。
type Guard struct {
	c    *Coordinator
	unit string
	ctx  context.Context
}

// Unit 返回句柄所属单元的名称。
func (g Guard) Unit() string {
	return g.unit
}

// Context 返回单元的 context：取消请求时结束，携带组件名。
func (g Guard) Context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// Done 返回在取消请求后关闭的 channel。
func (g Guard) Done() <-chan struct{} {
	if g.c == nil {
		return nil
	}
	return g.c.Done()
}

// IsCancelled 报告是否已请求取消。
func (g Guard) IsCancelled() bool {
	return g.c != nil && g.c.IsCancelled()
}

// Wait 阻塞直到取消请求。
func (g Guard) Wait() {
	<-g.Done()
}

// WaitContext 阻塞直到取消请求（返回 nil）或 ctx 结束（返回 ctx.Err()）。
func (g Guard) WaitContext(ctx context.Context) error {
	select {
	case <-g.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cause 返回取消原因，语义同 Coordinator.Cause。
func (g Guard) Cause() error {
	if g.c == nil {
		return nil
	}
	return g.c.Cause()
}

// WithContext 返回替换了 Context() 的句柄拷贝，取消信号不变。
//
// ctx 应派生自 g.Context()（例如追加了 span 或日志字段），否则 ctx 本身不会随取消结束。
func (g Guard) WithContext(ctx context.Context) Guard {
	if ctx != nil {
		g.ctx = ctx
	}
	return g
}

func withComponent(ctx context.Context, unit string) context.Context {
	if unit == "" {
		return ctx
	}
	if named, err := xctx.WithComponent(ctx, unit); err == nil {
		return named
	}
	return ctx
}
