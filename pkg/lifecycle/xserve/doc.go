// Package xserve 提供可直接注册到 xapp 的常用组件。
//
// 网络组件：
//   - [HTTP]：托管 *http.Server，绑定失败按 xretry 重试，取消后 Shutdown，超时强制 Close。
//   - [GRPC]：托管 *grpc.Server，维护标准健康检查状态，取消后 GracefulStop，超时强制 Stop。
//
// 两者都通过 Addr/Ready 暴露实际绑定地址，便于监听 ":0" 的场景。
//
// 后台组件：
//   - [Ticker]：周期任务，普通错误记录后继续，xretry.Permanent 错误结束组件。
//   - [Cron]：托管 xcron.Scheduler。
//   - [ConfigWatch]：托管 xconf.Watcher。
//   - [Idle]：只等待取消。
//
// [AccessLog] 是记录请求、响应和失败的 HTTP 中间件。
package xserve
