// Package distributed 提供调度相关的子包。
//
// 子包列表：
//   - xcron: 定时任务调度，支持超时、重试与跳过重叠执行
package distributed
