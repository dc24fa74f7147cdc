package xrun

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xboot/pkg/observability/xlog"
)

// Coordinator 广播单一取消信号并等待所有单元退出。
//
// 零值不可用，请通过 [New] 创建。所有方法并发安全。
type Coordinator struct {
	opts *options

	// ctx 只会被 Cancel 取消；父 context 的取消经 AfterFunc 转为一次 Cancel 调用，
	// 因此 Done() 关闭时状态一定已离开 Active。
	ctx        context.Context
	cancel     context.CancelCauseFunc
	stopParent func() bool

	state  atomic.Int32
	active atomic.Int64

	mu     sync.Mutex // 保护 closed 与 eg.Go 的原子性
	closed bool
	eg     errgroup.Group

	drainOnce sync.Once
	drained   chan struct{}
}

// New 创建 Coordinator。
//
// parent 提供 context 值（如 xctx 字段），其取消视为一次外部关闭请求，
// 取消原因取自 context.Cause(parent)。parent 为 nil 时使用 context.Background()。
func New(parent context.Context, opts ...Option) *Coordinator {
	if parent == nil {
		parent = context.Background()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	ctx, cancel := context.WithCancelCause(context.WithoutCancel(parent))
	c := &Coordinator{
		opts:    o,
		ctx:     ctx,
		cancel:  cancel,
		drained: make(chan struct{}),
	}
	c.stopParent = context.AfterFunc(parent, func() {
		c.Cancel(context.Cause(parent))
	})
	return c
}

// NewGuardFor 为指定单元创建取消句柄。
//
// 句柄的 Context() 携带 xctx 组件名；unit 为空时不注入。
func (c *Coordinator) NewGuardFor(unit string) Guard {
	return Guard{c: c, unit: unit, ctx: withComponent(c.ctx, unit)}
}

// Spawn 在新 goroutine 中运行 fn，并计入 AwaitAllDrained 的等待集合。
//
// drain 开始后（AwaitAllDrained/Drain 被调用）返回 ErrClosed。
// fn 内的 panic 不会被恢复，调用方需要自行 recover。
func (c *Coordinator) Spawn(unit string, fn func(Guard)) error {
	if fn == nil {
		return ErrNilFunc
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	g := c.NewGuardFor(unit)
	c.active.Add(1)
	c.eg.Go(func() error {
		defer c.active.Add(-1)
		fn(g)
		return nil
	})
	return nil
}

// Cancel 请求所有单元退出。
//
// 只有第一次调用完成 Active → CancellationRequested 转换并返回 true，
// 之后的调用（包括并发调用）都是 no-op。cause 为 nil 表示普通关闭请求。
func (c *Coordinator) Cancel(cause error) bool {
	if !c.transition(cause) {
		return false
	}
	c.opts.logger.Info(c.ctx, "shutdown requested",
		slog.String("coordinator", c.opts.name),
		slog.Int64("active", c.active.Load()),
		xlog.Err(cause),
	)
	return true
}

// transition 推进状态并触发回调，不记录日志。
func (c *Coordinator) transition(cause error) bool {
	if !c.state.CompareAndSwap(int32(StateActive), int32(StateCancellationRequested)) {
		return false
	}
	c.cancel(cause)
	for _, fn := range c.opts.onCancel {
		fn(cause)
	}
	return true
}

// IsCancelled 报告是否已请求取消。
func (c *Coordinator) IsCancelled() bool {
	return c.ctx.Err() != nil
}

// Done 返回在取消请求后关闭的 channel。
func (c *Coordinator) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Context 返回随取消信号结束的 context，携带父 context 的值。
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Cause 返回取消原因；未取消、Cancel(nil) 或单元自然退出时返回 nil。
func (c *Coordinator) Cause() error {
	err := context.Cause(c.ctx)
	//nolint:errorlint // 只过滤 cancel(nil) 记录的哨兵值本身，包装过的 Canceled 属于真实原因
	if err == context.Canceled {
		return nil
	}
	return err
}

// State 返回当前状态。
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Active 返回仍在运行的单元数量。
func (c *Coordinator) Active() int {
	return int(c.active.Load())
}

// Drain 停止接受新单元，返回在所有单元退出后关闭的 channel。
//
// 单元全部退出时，如果此前未请求取消，会以 nil 原因完成一次取消转换，
// 状态依次经过 CancellationRequested 到达 Drained。多次调用返回同一个 channel。
func (c *Coordinator) Drain() <-chan struct{} {
	c.drainOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		go func() {
			_ = c.eg.Wait()
			c.transition(nil)
			c.state.Store(int32(StateDrained))
			c.stopParent()
			c.opts.logger.Debug(c.ctx, "all units drained", slog.String("coordinator", c.opts.name))
			close(c.drained)
		}()
	})
	return c.drained
}

// AwaitAllDrained 阻塞直到所有已 Spawn 的单元退出，无论成功与否。
// 没有单元时立即返回。
func (c *Coordinator) AwaitAllDrained() {
	<-c.Drain()
}

// AwaitAllDrainedContext 与 AwaitAllDrained 相同，但在 ctx 结束时放弃等待，
// 返回包装了 ErrDrainIncomplete 的错误，其中包含仍在运行的单元数量。
// 放弃等待不会终止任何单元。
func (c *Coordinator) AwaitAllDrainedContext(ctx context.Context) error {
	drained := c.Drain()
	if ctx == nil {
		<-drained
		return nil
	}
	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		select {
		case <-drained:
			return nil
		default:
		}
		return fmt.Errorf("%w: %d unit(s) still running: %w",
			ErrDrainIncomplete, c.Active(), context.Cause(ctx))
	}
}
