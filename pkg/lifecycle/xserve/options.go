package xserve

import (
	"net"
	"time"

	"google.golang.org/grpc/health"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
	"github.com/omeyang/xboot/pkg/observability/xsampling"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

const (
	defaultShutdownTimeout = 10 * time.Second
	defaultBindAttempts    = 5
)

// Option 配置组件。
type Option func(*options)

type options struct {
	logger          xlog.Logger
	observer        xmetrics.Observer
	retryer         *xretry.Retryer
	shutdownTimeout time.Duration
	addr            string
	listener        net.Listener
	health          *health.Server
	sampler         xsampling.Sampler
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger:          xlog.Default(),
		observer:        xmetrics.NoopObserver{},
		shutdownTimeout: defaultShutdownTimeout,
		sampler:         xsampling.Always(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.retryer == nil {
		o.retryer = defaultBindRetryer(o.logger)
	}
	return o
}

// WithLogger 设置日志记录器，默认 xlog.Default()。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver 设置观测器，AccessLog 为每个请求开启一个跨度。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithBindRetry 设置端口绑定的重试器。
// 默认最多尝试 5 次，指数退避 100ms 起、上限 2s。
func WithBindRetry(r *xretry.Retryer) Option {
	return func(o *options) {
		if r != nil {
			o.retryer = r
		}
	}
}

// WithShutdownTimeout 设置优雅关闭的上限，超时后强制关闭。默认 10s。
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithAddr 设置监听地址，如 ":8080"。
func WithAddr(addr string) Option {
	return func(o *options) {
		o.addr = addr
	}
}

// WithListener 使用已绑定的 listener，跳过绑定。
func WithListener(l net.Listener) Option {
	return func(o *options) {
		o.listener = l
	}
}

// WithHealthServer 指定 gRPC 健康检查服务。未指定时 GRPC 会自行注册一个。
func WithHealthServer(h *health.Server) Option {
	return func(o *options) {
		o.health = h
	}
}

// WithSampler 设置 AccessLog 的采样器，只作用于成功请求的日志，失败总会记录。
// 默认全部记录。
func WithSampler(s xsampling.Sampler) Option {
	return func(o *options) {
		if s != nil {
			o.sampler = s
		}
	}
}
