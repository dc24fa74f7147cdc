package xapp

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/omeyang/xboot/pkg/context/xctx"
	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
	"github.com/omeyang/xboot/pkg/util/xid"
	"github.com/omeyang/xboot/pkg/util/xproc"
)

// App 并发运行注册表中的所有组件，直到全部退出。
//
// 任一组件失败（返回错误或 panic）、收到信号、ctx 取消或调用 Shutdown
// 都会广播一次关闭请求；App 不会强行终止任何组件，只等待它们自行退出。
// App 只能 Run 一次。
type App struct {
	reg   *Registry
	opts  *options
	state atomic.Int32

	mu          sync.Mutex
	coord       *xrun.Coordinator
	preShutdown bool
	preCause    error
}

// New 创建 App，不执行任何 I/O。reg 为 nil 时使用空注册表。
func New(reg *Registry, opts ...Option) *App {
	if reg == nil {
		reg = NewRegistry()
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &App{reg: reg, opts: o}
}

// Run 用给定组件创建 App 并以默认选项运行。注册失败时直接返回错误。
func Run(ctx context.Context, servables ...Servable) (*Report, error) {
	reg := NewRegistry()
	for _, s := range servables {
		if err := reg.Register(s); err != nil {
			return nil, err
		}
	}
	return New(reg).Run(ctx)
}

// Registry 返回 App 的注册表。
func (a *App) Registry() *Registry {
	return a.reg
}

// State 返回当前生命周期状态。
func (a *App) State() State {
	return State(a.state.Load())
}

// Shutdown 请求关闭。
//
// 只有触发了关闭请求的调用返回 true。Run 之前调用时请求被记录，
// Run 启动组件后立即生效。
func (a *App) Shutdown(cause error) bool {
	a.mu.Lock()
	coord := a.coord
	if coord == nil {
		defer a.mu.Unlock()
		if a.preShutdown || a.State() != StateIdle {
			return false
		}
		a.preShutdown, a.preCause = true, cause
		return true
	}
	a.mu.Unlock()
	return coord.Cancel(cause)
}

// Run 启动、等待并汇总所有组件的结果。ctx 为 nil 时使用 context.Background()。
//
// 组件失败不会使 Run 返回错误，失败记录在 Report 中。
// 仅在 drain 超时时返回匹配 ErrDrainIncomplete 的错误（同时返回 Report），
// 重复调用返回 ErrNotIdle。
func (a *App) Run(ctx context.Context) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	a.mu.Lock()
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		a.mu.Unlock()
		return nil, ErrNotIdle
	}
	a.reg.freeze()
	servables := a.reg.Servables()
	report := &Report{Started: time.Now()}
	report.RunID = a.newRunID(ctx)
	ctx = a.decorate(ctx, report.RunID)

	rec := newRecorder(a.reg.Names())
	coord := xrun.New(ctx,
		xrun.WithName(a.opts.name),
		xrun.WithLogger(a.opts.logger),
		xrun.WithOnCancel(func(cause error) { a.onCancel(ctx, rec, cause) }),
	)
	a.coord = coord
	preShutdown, preCause := a.preShutdown, a.preCause
	a.mu.Unlock()

	if a.opts.handleSignals {
		stop := coord.NotifySignals(a.opts.signals...)
		defer stop()
	}

	a.opts.logger.Info(ctx, "app starting", append(xproc.Attrs(),
		slog.String(xctx.KeyApp, a.opts.name),
		slog.String(xctx.KeyRunID, report.RunID),
		xlog.Count(int64(len(servables))),
	)...)

	if preShutdown {
		coord.Cancel(preCause)
	}
	for _, s := range servables {
		if err := coord.Spawn(s.Name(), func(g xrun.Guard) { a.serve(g, s, rec, coord) }); err != nil {
			// Drain 只在下方调用，正常不会走到这里。
			rec.add(Outcome{Name: s.Name(), Err: &UnitFailure{Name: s.Name(), Cause: err}})
		}
	}

	drainErr := a.awaitDrain(coord)
	rec.seal(report)
	report.Cause = coord.Cause()
	report.Elapsed = time.Since(report.Started)
	a.state.Store(int32(StateStopped))

	if drainErr != nil {
		a.opts.logger.Error(ctx, "drain abandoned",
			slog.Any("abandoned", report.Abandoned),
			xlog.Err(drainErr),
		)
	}
	a.opts.logger.Info(ctx, "app stopped",
		slog.Int("total", report.Total),
		slog.Int("succeeded", len(report.Succeeded)),
		slog.Int("failed", len(report.Failed)),
		slog.Int("abandoned", len(report.Abandoned)),
		xlog.Duration(report.Elapsed),
	)
	return report, drainErr
}

func (a *App) serve(g xrun.Guard, s Servable, rec *recorder, coord *xrun.Coordinator) {
	name := g.Unit()
	ctx, span := xmetrics.Start(g.Context(), a.opts.observer, xmetrics.SpanOptions{
		Component: name,
		Operation: "serve",
	})
	g = g.WithContext(ctx)

	a.opts.logger.Info(ctx, "component starting", xlog.Component(name))
	start := time.Now()
	err := graceful(g, invoke(s, g))
	elapsed := time.Since(start)
	span.End(xmetrics.Result{Err: err})

	if err == nil {
		rec.add(Outcome{Name: name, Elapsed: elapsed})
		a.opts.logger.Info(ctx, "component stopped", xlog.Component(name), xlog.Duration(elapsed))
		return
	}

	failure := &UnitFailure{Name: name, Cause: err}
	rec.add(Outcome{Name: name, Err: failure, Elapsed: elapsed})
	attrs := []slog.Attr{xlog.Component(name), xlog.Err(err), xlog.Duration(elapsed)}
	var pe *PanicError
	if errors.As(err, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	a.opts.logger.Error(ctx, "component failed", attrs...)
	coord.Cancel(failure)
}

func invoke(s Servable, g xrun.Guard) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()
	return s.Serve(g)
}

// graceful 将关闭请求之后的 context.Canceled 视为正常退出。
func graceful(g xrun.Guard, err error) error {
	if err != nil && g.IsCancelled() && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// onCancel 在第一次关闭请求时同步执行：Running → Draining，
// 并按注册顺序记录仍在运行的组件。
func (a *App) onCancel(ctx context.Context, rec *recorder, cause error) {
	a.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
	pending := rec.pending()
	if len(pending) == 0 {
		return
	}
	a.opts.logger.Info(ctx, "waiting for components",
		slog.Any("components", pending),
		xlog.Count(int64(len(pending))),
		xlog.Err(cause),
	)
}

func (a *App) awaitDrain(coord *xrun.Coordinator) error {
	if a.opts.drainTimeout <= 0 {
		coord.AwaitAllDrained()
		return nil
	}
	drained := coord.Drain()
	select {
	case <-drained:
		return nil
	case <-coord.Done():
	}
	if coord.Active() == 0 {
		// 组件已全部返回，drained 即将关闭。
		<-drained
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.opts.drainTimeout)
	defer cancel()
	return coord.AwaitAllDrainedContext(ctx)
}

func (a *App) newRunID(ctx context.Context) string {
	var (
		id  string
		err error
	)
	if a.opts.idgen != nil {
		id, err = a.opts.idgen.NewString()
	} else {
		id, err = xid.NewString()
	}
	if err != nil {
		a.opts.logger.Warn(ctx, "generate run id failed, falling back to uuid", xlog.Err(err))
		return xctx.GenerateRequestID()
	}
	return id
}

func (a *App) decorate(ctx context.Context, runID string) context.Context {
	if next, err := xctx.WithApp(ctx, a.opts.name); err == nil {
		ctx = next
	}
	if next, err := xctx.WithRunID(ctx, runID); err == nil {
		ctx = next
	}
	return ctx
}
