package xlog

import (
	"log/slog"
	"time"

	"github.com/omeyang/xboot/pkg/context/xctx"
)

// 常用属性 Key，组件运行时、serving 单元和访问日志共用。
const (
	KeyError      = "error"
	KeyDuration   = "duration"
	KeyCount      = "count"
	KeyComponent  = xctx.KeyComponent
	KeyRequestID  = xctx.KeyRequestID
	KeyOperation  = "operation"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatusCode = "status_code"
	KeyAddr       = "addr"
)

// Err 创建错误属性；err 为 nil 时返回空属性（slog 会忽略）。
//
//	if err != nil {
//	    logger.Error(ctx, "bind failed", xlog.Err(err))
//	}
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Duration 创建耗时属性，输出人类可读格式（如 "1.5s"）。
func Duration(d time.Duration) slog.Attr {
	return slog.String(KeyDuration, d.String())
}

// Component 创建组件名属性
func Component(name string) slog.Attr {
	return slog.String(KeyComponent, name)
}

// Operation 创建操作名属性
func Operation(name string) slog.Attr {
	return slog.String(KeyOperation, name)
}

// Count 创建计数属性
func Count(n int64) slog.Attr {
	return slog.Int64(KeyCount, n)
}

// Method 创建 HTTP/RPC 方法属性
func Method(m string) slog.Attr {
	return slog.String(KeyMethod, m)
}

// Path 创建请求路径属性
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// StatusCode 创建 HTTP 状态码属性
func StatusCode(code int) slog.Attr {
	return slog.Int(KeyStatusCode, code)
}

// Addr 创建监听地址属性
func Addr(addr string) slog.Attr {
	return slog.String(KeyAddr, addr)
}
