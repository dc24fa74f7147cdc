package xtrace

import (
	"context"
	"net/http"
	"strings"
)

// HTTPMiddleware 返回请求 ID 中间件。
//
// 复用上游 X-Request-ID，缺失或非法时生成新值，写入请求 context，
// 并在响应 Header 中回写。
func HTTPMiddleware(opts ...Option) func(http.Handler) http.Handler {
	cfg := applyOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := injectRequestID(r.Context(), strings.TrimSpace(r.Header.Get(HeaderRequestID)), cfg.autoGenerate)
			if id := RequestID(ctx); id != "" && cfg.echo {
				w.Header().Set(HeaderRequestID, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// InjectToRequest 将 ctx 中的请求 ID 写入出站 HTTP 请求。
func InjectToRequest(ctx context.Context, req *http.Request) {
	if req == nil {
		return
	}
	id := RequestID(ctx)
	if id == "" {
		return
	}
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	req.Header.Set(HeaderRequestID, id)
}
