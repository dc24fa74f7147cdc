// Package xmetrics 提供组件运行期的统一观测接口（metrics + tracing）。
//
// 业务代码只依赖 Observer/Span 两个最小接口，属性 Attr 即 OTel attribute.KeyValue，
// 默认实现基于 OpenTelemetry。
// xapp 为每个组件的 Serve 开启一个跨度，xserve 的访问日志中间件为每个
// HTTP 请求开启一个跨度。
//
//	obs, _ := xmetrics.NewOTelObserver()
//	ctx, span := xmetrics.Start(ctx, obs, xmetrics.SpanOptions{
//		Component: "http",
//		Operation: "serve",
//	})
//	defer span.End(xmetrics.Result{Err: err})
//
// # 指标命名
//
//   - xboot.operation.total
//   - xboot.operation.duration
//
// 统一属性：component / operation / status。
// 跨度属性额外携带 xctx 中的 app / run_id / request_id。
package xmetrics
