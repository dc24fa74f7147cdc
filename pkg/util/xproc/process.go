package xproc

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// 日志字段名。
const (
	KeyPID     = "pid"
	KeyProcess = "process"
)

// osExecutable 测试中替换。
var osExecutable = os.Executable

var (
	processNameOnce  sync.Once
	processNameValue string
)

// ProcessID 返回当前进程 ID。
func ProcessID() int {
	return os.Getpid()
}

// ProcessName 返回可执行文件名（不含路径），首次调用后缓存。
// 优先取 os.Executable，失败时回退到 os.Args[0]，都不可用时返回空字符串。
func ProcessName() string {
	processNameOnce.Do(func() {
		processNameValue = resolveProcessName()
	})
	return processNameValue
}

// Attrs 返回进程标识日志字段：pid 与 process。
func Attrs() []slog.Attr {
	return []slog.Attr{
		slog.Int(KeyPID, ProcessID()),
		slog.String(KeyProcess, ProcessName()),
	}
}

func resolveProcessName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
