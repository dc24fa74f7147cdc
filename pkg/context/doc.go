// Package context 提供上下文相关的子包。
//
// 子包列表：
//   - xctx: Context 增强，注入/提取应用、组件、运行与请求标识
//
// 设计原则：
//   - 所有上下文信息通过 context.Context 传递，不使用全局变量
//   - 日志字段从 context 中提取，业务代码无需手动拼接
package context
