//go:build unix

package xsys

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// 测试中替换，替换时不可 t.Parallel()。
var (
	getrlimit = unix.Getrlimit
	setrlimit = unix.Setrlimit
)

var fileLimitMu sync.Mutex

// CurrentFileLimit 查询 RLIMIT_NOFILE。
func CurrentFileLimit() (FileLimit, error) {
	var rl unix.Rlimit
	if err := getrlimit(unix.RLIMIT_NOFILE, &rl); err != nil {
		return FileLimit{}, fmt.Errorf("xsys: getrlimit RLIMIT_NOFILE: %w", err)
	}
	return FileLimit{Soft: rl.Cur, Hard: rl.Max}, nil
}

// RaiseFileLimit 把 soft limit 提升到 hard limit，ceiling 大于 0 时不超过 ceiling。
// 不修改 hard limit，不降低 soft limit。
func RaiseFileLimit(ceiling uint64) (Raised, error) {
	fileLimitMu.Lock()
	defer fileLimitMu.Unlock()

	before, err := CurrentFileLimit()
	if err != nil {
		return Raised{}, err
	}
	res := Raised{Before: before, After: before}
	next := target(before, ceiling)
	if next == before.Soft {
		return res, nil
	}
	if err := setrlimit(unix.RLIMIT_NOFILE, &unix.Rlimit{Cur: next, Max: before.Hard}); err != nil {
		return res, fmt.Errorf("xsys: setrlimit RLIMIT_NOFILE %d: %w", next, err)
	}
	res.After.Soft = next
	return res, nil
}
