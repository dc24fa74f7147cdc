package xtrace

import (
	"context"
	"log/slog"

	"github.com/omeyang/xboot/pkg/context/xctx"
	"github.com/omeyang/xboot/pkg/observability/xlog"
)

const (
	// HeaderRequestID 是 HTTP 请求 ID Header。
	HeaderRequestID = "X-Request-ID"
	// MetadataRequestID 是 gRPC 请求 ID Metadata 键（gRPC 要求小写）。
	MetadataRequestID = "x-request-id"

	// maxRequestIDLen 限制上游传入的请求 ID 长度，超出视为非法。
	maxRequestIDLen = 128
)

// Option 配置请求 ID 传播行为，HTTP 与 gRPC 共用。
type Option func(*config)

type config struct {
	autoGenerate bool
	echo         bool
}

func applyOptions(opts []Option) *config {
	cfg := &config{autoGenerate: true, echo: true}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// WithAutoGenerate 设置缺失或非法时是否生成新的请求 ID，默认 true。
func WithAutoGenerate(enabled bool) Option {
	return func(cfg *config) {
		cfg.autoGenerate = enabled
	}
}

// WithEcho 设置是否在响应中回写请求 ID，默认 true。
func WithEcho(enabled bool) Option {
	return func(cfg *config) {
		cfg.echo = enabled
	}
}

// RequestID 从 context 读取请求 ID。
func RequestID(ctx context.Context) string {
	return xctx.RequestID(ctx)
}

// ValidRequestID 判断上游传入的请求 ID 是否可接受：
// 非空、不超过 128 字节、仅包含可见 ASCII 字符。
func ValidRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}

// injectRequestID 将上游请求 ID 写入 ctx；非法时丢弃，按配置生成新值。
func injectRequestID(ctx context.Context, value string, autoGenerate bool) context.Context {
	var err error
	switch {
	case ValidRequestID(value):
		ctx, err = xctx.WithRequestID(ctx, value)
	case autoGenerate:
		if value != "" {
			xlog.Warn(ctx, "xtrace: invalid request_id, regenerating", slog.Int("length", len(value)))
		}
		ctx, err = xctx.EnsureRequestID(ctx)
	}
	if err != nil {
		xlog.Warn(ctx, "xtrace: inject request_id failed", xlog.Err(err))
	}
	return ctx
}
