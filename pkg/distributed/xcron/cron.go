package xcron

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xmetrics"
)

var (
	// ErrNilJob 表示任务为 nil。
	ErrNilJob = errors.New("xcron: job cannot be nil")
	// ErrInvalidSpec 表示 cron 表达式无法解析。
	ErrInvalidSpec = errors.New("xcron: invalid spec")
	// ErrStopped 表示调度器已 Stop，不再接受任务。
	ErrStopped = errors.New("xcron: scheduler stopped")
)

// Scheduler 定时任务调度器。
type Scheduler interface {
	// AddFunc 按 spec 注册函数任务，spec 如 "@every 1m" 或 "0 * * * *"。
	AddFunc(spec string, cmd func(ctx context.Context) error, opts ...JobOption) (JobID, error)
	// AddJob 按 spec 注册 Job。Stop 之后返回 ErrStopped。
	AddJob(spec string, job Job, opts ...JobOption) (JobID, error)
	// Remove 移除任务，正在执行的不受影响。
	Remove(id JobID)
	// Start 启动调度（非阻塞），重复调用无效果。
	Start()
	// Stop 停止调度并取消任务 ctx。返回的 ctx 在所有执行中的任务结束后 Done。
	Stop() context.Context
	// Entries 返回已注册任务。
	Entries() []Entry
	// Stats 返回执行统计。
	Stats() *Stats
}

type cronScheduler struct {
	cron   *cron.Cron
	opts   *schedulerOptions
	stats  *Stats
	ctx    context.Context
	cancel context.CancelFunc

	// mu 保证 immediateWg.Add 不与 Stop 中的 Wait 并发。
	mu          sync.Mutex
	stopped     bool
	immediateWg sync.WaitGroup
}

// New 创建本地调度器。
//
//	s := xcron.New(xcron.WithLogger(logger))
//	_, _ = s.AddFunc("@every 30s", refresh, xcron.WithName("refresh"))
//	s.Start()
//	defer func() { <-s.Stop().Done() }()
func New(opts ...SchedulerOption) Scheduler {
	o := defaultSchedulerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	ctx, cancel := context.WithCancel(o.baseCtx)
	return &cronScheduler{
		cron: cron.New(
			cron.WithLocation(o.location),
			cron.WithParser(o.parser),
			cron.WithLogger(cronLogger{logger: o.logger}),
		),
		opts:   o,
		stats:  &Stats{},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *cronScheduler) AddFunc(spec string, cmd func(ctx context.Context) error, opts ...JobOption) (JobID, error) {
	if cmd == nil {
		return 0, ErrNilJob
	}
	return s.AddJob(spec, JobFunc(cmd), opts...)
}

func (s *cronScheduler) AddJob(spec string, job Job, opts ...JobOption) (JobID, error) {
	if job == nil {
		return 0, ErrNilJob
	}
	jo := &jobOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(jo)
		}
	}
	if jo.name == "" {
		jo.name = spec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0, ErrStopped
	}

	w := &jobWrapper{job: job, opts: jo, sched: s}
	id, err := s.cron.AddJob(spec, w)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}

	if jo.immediate {
		s.immediateWg.Add(1)
		go func() {
			defer s.immediateWg.Done()
			w.Run()
		}()
	}
	return id, nil
}

func (s *cronScheduler) Remove(id JobID) {
	s.cron.Remove(id)
}

func (s *cronScheduler) Start() {
	s.cron.Start()
}

func (s *cronScheduler) Stop() context.Context {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	cronDone := s.cron.Stop()

	ctx, done := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.immediateWg.Wait()
		done()
	}()
	return ctx
}

func (s *cronScheduler) Entries() []Entry {
	return s.cron.Entries()
}

func (s *cronScheduler) Stats() *Stats {
	return s.stats
}

// jobWrapper 实现 cron.Job，附加超时、重试、观测与统计。
type jobWrapper struct {
	job     Job
	opts    *jobOptions
	sched   *cronScheduler
	running atomic.Bool
}

func (w *jobWrapper) Run() {
	s := w.sched
	if s.ctx.Err() != nil {
		return
	}
	if w.opts.skipIfRunning && !w.running.CompareAndSwap(false, true) {
		s.stats.skipped.Add(1)
		s.opts.logger.Debug(s.ctx, "job still running, skipped", xlog.Operation(w.opts.name))
		return
	}
	defer w.running.Store(false)

	ctx := s.ctx
	if w.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.opts.timeout)
		defer cancel()
	}
	ctx, span := xmetrics.Start(ctx, s.opts.observer, xmetrics.SpanOptions{
		Component: "xcron",
		Operation: w.opts.name,
		Kind:      xmetrics.KindInternal,
	})

	start := time.Now()
	err := w.execute(ctx)
	elapsed := time.Since(start)

	span.End(xmetrics.Result{Err: err})
	s.stats.record(elapsed, err)
	if err != nil {
		s.opts.logger.Error(ctx, "job failed", xlog.Operation(w.opts.name), xlog.Duration(elapsed), xlog.Err(err))
		return
	}
	s.opts.logger.Debug(ctx, "job completed", xlog.Operation(w.opts.name), xlog.Duration(elapsed))
}

func (w *jobWrapper) execute(ctx context.Context) error {
	if w.opts.retryer != nil {
		return w.opts.retryer.Do(ctx, w.runOnce)
	}
	return w.runOnce(ctx)
}

// runOnce 将任务 panic 转为错误，调度器继续运行。
func (w *jobWrapper) runOnce(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("xcron: job %q panicked: %v\n%s", w.opts.name, r, debug.Stack())
		}
	}()
	return w.job.Run(ctx)
}
