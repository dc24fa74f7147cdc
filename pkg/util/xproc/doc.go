// Package xproc 提供进程标识，xapp 在 "app starting" 日志中携带这些字段。
package xproc
