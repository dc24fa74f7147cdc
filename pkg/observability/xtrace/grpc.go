package xtrace

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// ExtractFromIncomingContext 读取 incoming metadata 中的请求 ID。
func ExtractFromIncomingContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(MetadataRequestID)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// GRPCUnaryServerInterceptor 返回一元服务端拦截器，行为与 [HTTPMiddleware] 一致，
// 回写通过 response header metadata 完成。
func GRPCUnaryServerInterceptor(opts ...Option) grpc.UnaryServerInterceptor {
	cfg := applyOptions(opts)
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx = serverContext(ctx, cfg)
		return handler(ctx, req)
	}
}

// GRPCStreamServerInterceptor 返回流式服务端拦截器。
func GRPCStreamServerInterceptor(opts ...Option) grpc.StreamServerInterceptor {
	cfg := applyOptions(opts)
	return func(srv any, ss grpc.ServerStream, _ *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := serverContext(ss.Context(), cfg)
		return handler(srv, &wrappedServerStream{ServerStream: ss, ctx: ctx})
	}
}

func serverContext(ctx context.Context, cfg *config) context.Context {
	ctx = injectRequestID(ctx, ExtractFromIncomingContext(ctx), cfg.autoGenerate)
	if id := RequestID(ctx); id != "" && cfg.echo {
		// 非 gRPC 调用上下文（如单测直接调用）下 SetHeader 返回错误，忽略即可。
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, id))
	}
	return ctx
}

type wrappedServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedServerStream) Context() context.Context {
	return w.ctx
}

// GRPCUnaryClientInterceptor 返回一元客户端拦截器，将请求 ID 传播到下游。
func GRPCUnaryClientInterceptor() grpc.UnaryClientInterceptor {
	return func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
		return invoker(InjectToOutgoingContext(ctx), method, req, reply, cc, opts...)
	}
}

// InjectToOutgoingContext 将 ctx 中的请求 ID 写入 outgoing metadata。
func InjectToOutgoingContext(ctx context.Context) context.Context {
	id := RequestID(ctx)
	if id == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, MetadataRequestID, id)
}
