package xserve

import (
	"context"
	"time"

	"github.com/omeyang/xboot/pkg/config/xconf"
	"github.com/omeyang/xboot/pkg/distributed/xcron"
	"github.com/omeyang/xboot/pkg/lifecycle/xapp"
	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

// Ticker 每隔 interval 调用一次 fn，immediate 为 true 时启动即调用一次。
//
// fn 返回的错误记录日志后继续；用 xretry.Permanent 包装的错误结束组件并报告失败。
// 取消请求后不再调用 fn，正在执行的调用可通过 ctx 感知取消。
func Ticker(name string, interval time.Duration, immediate bool, fn func(ctx context.Context) error, opts ...Option) xapp.Servable {
	o := applyOptions(opts)
	return xapp.GuardFunc(name, func(g xrun.Guard) error {
		if fn == nil {
			return ErrNilFunc
		}
		if interval <= 0 {
			return ErrInvalidInterval
		}
		ctx := g.Context()
		tick := func() error {
			err := fn(ctx)
			if err == nil || g.IsCancelled() {
				return nil
			}
			if !xretry.IsRetryable(err) {
				return err
			}
			o.logger.Warn(ctx, "tick failed", xlog.Err(err))
			return nil
		}

		if immediate {
			if err := tick(); err != nil {
				return err
			}
		}
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-g.Done():
				return nil
			case <-t.C:
				if err := tick(); err != nil {
					return err
				}
			}
		}
	})
}

// Idle 等待取消请求后正常退出，用于让 App 保持运行。
func Idle(name string) xapp.Servable {
	return xapp.GuardFunc(name, func(g xrun.Guard) error {
		g.Wait()
		return nil
	})
}

// Cron 启动调度器，取消请求后停止调度并等待执行中的任务结束。
func Cron(name string, s xcron.Scheduler, opts ...Option) xapp.Servable {
	o := applyOptions(opts)
	return xapp.GuardFunc(name, func(g xrun.Guard) error {
		if s == nil {
			return ErrNilServer
		}
		ctx := g.Context()
		s.Start()
		o.logger.Info(ctx, "cron started", xlog.Count(int64(len(s.Entries()))))
		g.Wait()
		<-s.Stop().Done()
		o.logger.Info(ctx, "cron stopped", xlog.Count(s.Stats().TotalExecutions()))
		return nil
	})
}

// ConfigWatch 运行配置监视器，取消请求后返回。
func ConfigWatch(name string, w *xconf.Watcher) xapp.Servable {
	return xapp.Func(name, func(ctx context.Context) error {
		if w == nil {
			return ErrNilServer
		}
		return w.Run(ctx)
	})
}
