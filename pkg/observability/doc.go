// Package observability 提供可观测性相关的子包。
//
// 子包列表：
//   - xlog: 结构化日志，基于 log/slog 扩展
//   - xtrace: HTTP/gRPC 请求 ID 传播中间件
//   - xmetrics: 统一观测接口（指标、追踪），默认基于 OpenTelemetry
//   - xsampling: 采样策略
//   - xrotate: 日志文件轮转
//
// 设计原则：
//   - 自动从 context 中提取 app、run_id、request_id 注入日志
//   - 支持动态级别控制和采样策略
package observability
