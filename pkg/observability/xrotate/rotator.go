package xrotate

import "io"

var _ io.WriteCloser = (Rotator)(nil)

// Rotator 日志轮转器
//
// Close 之后 Write 和 Rotate 返回 [ErrClosed]，重复 Close 同样返回 [ErrClosed]。
type Rotator interface {
	Write(p []byte) (n int, err error)
	Close() error

	// Rotate 手动触发轮转：关闭当前文件，重命名为备份并创建新文件。
	// 进程收到 SIGHUP 时由宿主调用。
	Rotate() error
}
