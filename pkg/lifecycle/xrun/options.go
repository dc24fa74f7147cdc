package xrun

import "github.com/omeyang/xboot/pkg/observability/xlog"

// Option 配置 Coordinator 的选项函数。
type Option func(*options)

type options struct {
	logger   xlog.Logger
	name     string
	onCancel []func(cause error)
}

func defaultOptions() *options {
	return &options{
		logger: xlog.Default(),
		name:   "xrun",
	}
}

// WithLogger 设置日志记录器，默认使用 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Coordinator 名称，用于日志中区分不同实例。默认 "xrun"。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithOnCancel 注册取消回调。
//
// 回调在 Active → CancellationRequested 转换时同步执行且只执行一次，
// 运行在触发 Cancel 的 goroutine 中（此时 Done() 已关闭）。
// 回调内再次调用 Cancel 是安全的（no-op）。
func WithOnCancel(fn func(cause error)) Option {
	return func(o *options) {
		if fn != nil {
			o.onCancel = append(o.onCancel, fn)
		}
	}
}
