// Package xtrace 负责请求 ID 在 HTTP 与 gRPC 之间的传播。
//
// 服务端：[HTTPMiddleware]、[GRPCUnaryServerInterceptor]、[GRPCStreamServerInterceptor]
// 从入站请求读取 X-Request-ID（gRPC 为 x-request-id），缺失或非法时生成 UUID，
// 写入 xctx 并回写到响应。之后 xlog 的 EnrichHandler 会自动在日志中附带 request_id。
//
// 客户端：[InjectToRequest]、[InjectToOutgoingContext]、[GRPCUnaryClientInterceptor]
// 将 ctx 中的请求 ID 传给下游。
package xtrace
