package xcron

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// JobID 任务标识，即 cron.EntryID。
type JobID = cron.EntryID

// Entry 已注册任务的快照。
type Entry = cron.Entry

// Job 定时任务。ctx 在调度器停止时取消。
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc 函数适配器。
type JobFunc func(ctx context.Context) error

func (f JobFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Stats 调度器执行统计，并发安全。
type Stats struct {
	total    atomic.Int64
	success  atomic.Int64
	failure  atomic.Int64
	skipped  atomic.Int64
	lastNano atomic.Int64
}

func (s *Stats) TotalExecutions() int64 { return s.total.Load() }
func (s *Stats) SuccessCount() int64    { return s.success.Load() }
func (s *Stats) FailureCount() int64    { return s.failure.Load() }
func (s *Stats) SkipCount() int64       { return s.skipped.Load() }

// LastDuration 返回最近一次执行耗时。
func (s *Stats) LastDuration() time.Duration {
	return time.Duration(s.lastNano.Load())
}

func (s *Stats) record(d time.Duration, err error) {
	s.total.Add(1)
	s.lastNano.Store(int64(d))
	if err != nil {
		s.failure.Add(1)
		return
	}
	s.success.Add(1)
}
