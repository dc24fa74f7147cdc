package xserve

import (
	"net/http"
	"time"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
)

// AccessLog 返回记录访问日志的中间件。
//
// 请求到达记 Debug "http request"，完成记 Info "http response"，
// 5xx 或 handler panic 记 Error "http failure"。日志携带方法、路径、状态码与耗时，
// 放在 xtrace.HTTPMiddleware 之后时还会带上 request_id。
// 通过 WithObserver 可为每个请求开启一个 KindServer 跨度，操作名只取 HTTP 方法，
// 原始路径与 ServeMux 匹配到的路由只作为跨度属性，不进入指标维度；
// 通过 WithSampler 对成功请求的日志采样，采样结论在请求开始时确定。
func AccessLog(opts ...Option) func(http.Handler) http.Handler {
	o := applyOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := xmetrics.Start(r.Context(), o.observer, xmetrics.SpanOptions{
				Component: "http",
				Operation: r.Method,
				Kind:      xmetrics.KindServer,
			})
			sampled := o.sampler.ShouldSample(ctx)
			if sampled {
				o.logger.Debug(ctx, "http request", xlog.Method(r.Method), xlog.Path(r.URL.Path))
			}

			req := r.WithContext(ctx)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			defer func() {
				elapsed := time.Since(start)
				if v := recover(); v != nil {
					o.logger.Error(ctx, "http failure",
						xlog.Method(r.Method), xlog.Path(r.URL.Path), xlog.Duration(elapsed), xlog.Err(panicErr(v)))
					span.End(xmetrics.Result{Status: xmetrics.StatusError, Err: panicErr(v), Attrs: routeAttrs(req)})
					panic(v)
				}
				attrs := append(routeAttrs(req), xmetrics.Int("http.status_code", rec.status))
				if rec.status >= http.StatusInternalServerError {
					o.logger.Error(ctx, "http failure",
						xlog.Method(r.Method), xlog.Path(r.URL.Path), xlog.StatusCode(rec.status), xlog.Duration(elapsed))
					span.End(xmetrics.Result{Status: xmetrics.StatusError, Attrs: attrs})
					return
				}
				if sampled {
					o.logger.Info(ctx, "http response",
						xlog.Method(r.Method), xlog.Path(r.URL.Path), xlog.StatusCode(rec.status), xlog.Duration(elapsed))
				}
				span.End(xmetrics.Result{Status: xmetrics.StatusOK, Attrs: attrs})
			}()

			next.ServeHTTP(rec, req)
		})
	}
}

// routeAttrs 读取 ServeMux 写回 req.Pattern 的路由，未经 ServeMux 时为空。
func routeAttrs(req *http.Request) []xmetrics.Attr {
	attrs := []xmetrics.Attr{xmetrics.String("url.path", req.URL.Path)}
	if req.Pattern != "" {
		attrs = append(attrs, xmetrics.String("http.route", req.Pattern))
	}
	return attrs
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Unwrap 供 http.ResponseController 访问底层 writer。
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
