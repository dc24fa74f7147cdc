package xctx

import (
	"context"

	"github.com/google/uuid"
)

// =============================================================================
// RequestID 操作
// =============================================================================

// WithRequestID 将 request ID 注入 context
//
// 如果 ctx 为 nil，返回 ErrNilContext；requestID 为空返回 ErrEmptyValue。
func WithRequestID(ctx context.Context, requestID string) (context.Context, error) {
	return withString(ctx, keyRequestID, requestID)
}

// RequestID 从 context 提取 request ID，不存在返回空字符串
func RequestID(ctx context.Context) string {
	return stringValue(ctx, keyRequestID)
}

// GenerateRequestID 生成 RequestID
//
// 格式: UUIDv4 字符串，示例: "550e8400-e29b-41d4-a716-446655440000"
func GenerateRequestID() string {
	return uuid.NewString()
}

// EnsureRequestID 确保 context 中存在 RequestID。
//
// 如果 context 中已有 RequestID，原样返回（不验证/不纠正）；
// 否则自动生成新的并注入。用于 HTTP/gRPC 入口中间件。
// 如果 ctx 为 nil，返回 ErrNilContext。
func EnsureRequestID(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if RequestID(ctx) != "" {
		return ctx, nil
	}
	return WithRequestID(ctx, GenerateRequestID())
}
