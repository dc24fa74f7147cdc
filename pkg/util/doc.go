// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xid: 基于 sonyflake 的分布式 ID 生成，xapp 用于生成 run_id
//   - xproc: 进程信息查询，PID 和进程名称
//   - xsys: 系统资源限制管理，文件描述符上限
package util
