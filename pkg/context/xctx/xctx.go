package xctx

import (
	"context"
	"errors"
)

// =============================================================================
// Context Key 类型定义
// =============================================================================

// contextKey 为包私有类型，与其他包的 key 不会冲突；字符串值便于调试时识别。
type contextKey string

// =============================================================================
// 错误定义
// =============================================================================

var (
	// ErrNilContext 表示传入的 context 为 nil。
	ErrNilContext = errors.New("xctx: nil context")

	// ErrEmptyValue 表示注入的值为空字符串。
	ErrEmptyValue = errors.New("xctx: empty value")
)

// =============================================================================
// 日志属性 Key 常量
// =============================================================================

const (
	KeyApp       = "app"
	KeyComponent = "component"
	KeyRunID     = "run_id"
	KeyRequestID = "request_id"

	// logFieldCount 日志字段数量（用于 slog 属性预分配）
	logFieldCount = 4
)

const (
	keyApp       = contextKey("xctx:app")
	keyComponent = contextKey("xctx:component")
	keyRunID     = contextKey("xctx:run_id")
	keyRequestID = contextKey("xctx:request_id")
)

// withString 是所有 WithXxx 的公共实现。
func withString(ctx context.Context, key contextKey, value string) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if value == "" {
		return nil, ErrEmptyValue
	}
	return context.WithValue(ctx, key, value), nil
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}
