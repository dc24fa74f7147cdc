package xapp

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Outcome 是单个组件的运行结果。
type Outcome struct {
	Name string
	// Err 为 nil 表示成功，否则为 *UnitFailure。
	Err     error
	Elapsed time.Duration
}

// Report 汇总一次 Run 的结果。
type Report struct {
	// Total 为注册的组件数量。
	Total     int
	Succeeded []string
	Failed    []*UnitFailure
	// Abandoned 为 drain 超时时仍未退出的组件，按注册顺序。
	Abandoned []string
	// Outcomes 按完成顺序记录每个已退出组件的结果。
	Outcomes []Outcome
	// Cause 为触发关闭的原因；组件全部自然退出时为 nil。
	Cause   error
	RunID   string
	Started time.Time
	Elapsed time.Duration
}

// OK 报告是否所有组件都成功退出。
func (r *Report) OK() bool {
	return r != nil && len(r.Failed) == 0 && len(r.Abandoned) == 0
}

// Err 合并所有失败，没有失败时返回 nil。
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	errs := make([]error, 0, len(r.Failed)+1)
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	if len(r.Abandoned) > 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrDrainIncomplete, strings.Join(r.Abandoned, ", ")))
	}
	return errors.Join(errs...)
}

// Failure 返回指定组件的失败记录。
func (r *Report) Failure(name string) (*UnitFailure, bool) {
	if r == nil {
		return nil, false
	}
	for _, f := range r.Failed {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// recorder 收集组件结果。seal 之后到达的结果被丢弃。
type recorder struct {
	mu       sync.Mutex
	names    []string
	done     map[string]struct{}
	outcomes []Outcome
	sealed   bool
}

func newRecorder(names []string) *recorder {
	return &recorder{
		names: names,
		done:  make(map[string]struct{}, len(names)),
	}
}

func (r *recorder) add(o Outcome) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return false
	}
	r.done[o.Name] = struct{}{}
	r.outcomes = append(r.outcomes, o)
	return true
}

// pending 按注册顺序返回尚未退出的组件。
func (r *recorder) pending() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingLocked()
}

func (r *recorder) pendingLocked() []string {
	var out []string
	for _, name := range r.names {
		if _, ok := r.done[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

func (r *recorder) seal(report *Report) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true

	report.Total = len(r.names)
	report.Outcomes = append([]Outcome(nil), r.outcomes...)
	report.Abandoned = r.pendingLocked()
	report.Succeeded = make([]string, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		var failure *UnitFailure
		if errors.As(o.Err, &failure) {
			report.Failed = append(report.Failed, failure)
			continue
		}
		report.Succeeded = append(report.Succeeded, o.Name)
	}
}
