package xapp

import (
	"os"
	"time"

	"github.com/omeyang/xboot/pkg/lifecycle/xrun"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
	"github.com/omeyang/xboot/pkg/util/xid"
)

const defaultName = "xapp"

// Option 配置 App。
type Option func(*options)

type options struct {
	name          string
	logger        xlog.Logger
	observer      xmetrics.Observer
	handleSignals bool
	signals       []os.Signal
	drainTimeout  time.Duration
	idgen         *xid.Generator
}

func defaultOptions() *options {
	return &options{
		name:          defaultName,
		logger:        xlog.Default(),
		observer:      xmetrics.NoopObserver{},
		handleSignals: true,
		signals:       xrun.DefaultSignals(),
	}
}

// WithName 设置应用名称，写入 xctx 并出现在日志中。默认 "xapp"。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger 设置日志记录器，默认 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 设置观测器，每个组件的 Serve 对应一个跨度。默认不观测。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithSignals 指定触发关闭的信号，默认 xrun.DefaultSignals()。
// 空参数保持默认值。
func WithSignals(signals ...os.Signal) Option {
	return func(o *options) {
		o.handleSignals = true
		if len(signals) > 0 {
			o.signals = append([]os.Signal(nil), signals...)
		}
	}
}

// WithoutSignalHandler 禁用信号处理，关闭只能来自 ctx、Shutdown 或组件失败。
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.handleSignals = false
	}
}

// WithDrainTimeout 限制关闭请求之后等待组件退出的时间。
//
// 超时后 Run 不再等待，仍在运行的组件记入 Report.Abandoned，
// Run 返回匹配 ErrDrainIncomplete 的错误。d <= 0 表示无限等待（默认）。
func WithDrainTimeout(d time.Duration) Option {
	return func(o *options) {
		o.drainTimeout = d
	}
}

// WithIDGenerator 设置生成 RunID 的 xid 生成器，默认使用 xid 包级生成器。
func WithIDGenerator(g *xid.Generator) Option {
	return func(o *options) {
		if g != nil {
			o.idgen = g
		}
	}
}
