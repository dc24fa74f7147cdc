// Package xlog 基于 log/slog 的结构化日志库。
//
// # 创建 Logger
//
// 使用 Builder 模式（first-error-wins）：
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetAttrs(slog.String("service", "billing")).
//		SetRotation("/var/log/billing/app.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # Context 注入
//
// EnrichHandler（默认启用）从 context 读取 xctx 字段并追加到每条日志：
// app、component、run_id、request_id。组件运行时为每个组件的 context
// 注入 component，因此组件内部的日志无需手动携带组件名。
//
// # 全局 Logger
//
// [Default]、[SetDefault] 以及包级 [Debug]、[Info]、[Warn]、[Error]。
// 未显式注入 Logger 的 xrun/xapp/xserve 使用 [Default]。
//
// # 日志级别
//
// [Level] 实现 encoding.TextUnmarshaler，可直接作为配置字段解码。
package xlog
