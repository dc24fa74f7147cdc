// Package xsys 提供进程资源限制相关的系统调用封装。
//
// 长连接服务启动时通常需要把 RLIMIT_NOFILE 的 soft limit 提到 hard limit：
//
//	if r, err := xsys.RaiseFileLimit(0); err == nil && r.Changed() {
//		logger.Info(ctx, "file limit raised", ...)
//	}
package xsys
