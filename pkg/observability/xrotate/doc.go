// Package xrotate 提供日志文件轮转，作为 xlog 的文件输出目标。
//
// [Rotator] 定义 Write/Close/Rotate，所有实现并发安全。
// 当前实现 [NewLumberjack] 基于 lumberjack v2 按文件大小轮转，
// 备份数量和保留天数至少配置一项。
package xrotate
