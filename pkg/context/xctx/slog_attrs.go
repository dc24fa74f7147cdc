package xctx

import (
	"context"
	"log/slog"
)

// AppendLogAttrs 将 context 中的运行与请求信息追加到现有切片。
// 只追加非空字段，传入预分配切片时热路径零额外分配。
func AppendLogAttrs(attrs []slog.Attr, ctx context.Context) []slog.Attr {
	if ctx == nil {
		return attrs
	}

	if v := App(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyApp, v))
	}
	if v := Component(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyComponent, v))
	}
	if v := RunID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyRunID, v))
	}
	if v := RequestID(ctx); v != "" {
		attrs = append(attrs, slog.String(KeyRequestID, v))
	}

	return attrs
}

// LogAttrs 从 context 提取所有日志字段，都为空时返回 nil。
//
// 注意：每次调用会分配新切片。热路径建议使用 AppendLogAttrs。
func LogAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs := AppendLogAttrs(make([]slog.Attr, 0, logFieldCount), ctx)
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
