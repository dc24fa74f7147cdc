// Package xctx 提供轻量级的运行上下文管理。
//
// 为组件运行时和请求入口提供 context 存取能力，并为日志系统提供属性提取功能。
//
// # 核心字段
//
// 运行信息（Runtime）- 标识日志来源：
//   - app       : 应用名称
//   - component : 组件（Servable）名称
//   - run_id    : 单次运行标识，由 xapp 在 Run 时生成
//
// 请求信息（Request）- 入口中间件注入：
//   - request_id : 请求标识，沿用上游传入值或自动生成
//
// # 命名约定
//
//	WithXxx(ctx, value)    - 注入：将 value 写入 context
//	Xxx(ctx)               - 读取：从 context 读取值，缺失时返回零值
//	EnsureXxx(ctx)         - 确保存在：若已存在则返回，否则自动生成
//
// # 日志集成
//
// [LogAttrs] 与 [AppendLogAttrs] 将上述非空字段转换为 slog.Attr，
// xlog 的 EnrichHandler 在每条日志上调用它们。
package xctx
