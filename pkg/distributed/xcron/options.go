package xcron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

type schedulerOptions struct {
	baseCtx  context.Context
	logger   xlog.Logger
	observer xmetrics.Observer
	location *time.Location
	parser   cron.ScheduleParser
}

func defaultSchedulerOptions() *schedulerOptions {
	return &schedulerOptions{
		baseCtx:  context.Background(),
		logger:   xlog.Default(),
		observer: xmetrics.NoopObserver{},
		location: time.Local,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// SchedulerOption 配置调度器。
type SchedulerOption func(*schedulerOptions)

// WithContext 设置任务 ctx 的父级，任务可从中读取 xctx 上下文字段。
func WithContext(ctx context.Context) SchedulerOption {
	return func(o *schedulerOptions) {
		if ctx != nil {
			o.baseCtx = ctx
		}
	}
}

// WithLogger 设置日志记录器，默认 xlog.Default()。
func WithLogger(logger xlog.Logger) SchedulerOption {
	return func(o *schedulerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 设置观测器，每次执行对应一个跨度。
func WithObserver(observer xmetrics.Observer) SchedulerOption {
	return func(o *schedulerOptions) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithLocation 设置时区，默认 time.Local。
func WithLocation(loc *time.Location) SchedulerOption {
	return func(o *schedulerOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithSeconds 启用秒级表达式（6 段）。
func WithSeconds() SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	}
}

type jobOptions struct {
	name          string
	timeout       time.Duration
	retryer       *xretry.Retryer
	immediate     bool
	skipIfRunning bool
}

// JobOption 配置单个任务。
type JobOption func(*jobOptions)

// WithName 设置任务名，用于日志与观测。
func WithName(name string) JobOption {
	return func(o *jobOptions) {
		o.name = name
	}
}

// WithTimeout 设置单次执行超时。
func WithTimeout(d time.Duration) JobOption {
	return func(o *jobOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRetry 失败时按 r 重试。
func WithRetry(r *xretry.Retryer) JobOption {
	return func(o *jobOptions) {
		o.retryer = r
	}
}

// WithImmediate 注册后立即执行一次，不等待首个调度点。
func WithImmediate() JobOption {
	return func(o *jobOptions) {
		o.immediate = true
	}
}

// WithSkipIfRunning 上一次执行未结束时跳过本次。
func WithSkipIfRunning() JobOption {
	return func(o *jobOptions) {
		o.skipIfRunning = true
	}
}
