package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// WatchCallback 在每次重载尝试后调用，err 为 nil 表示新配置已生效。
type WatchCallback func(cfg Config, err error)

// WatchOption 配置 Watcher。
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
}

// WithDebounce 设置防抖时间，窗口内的多次变更只触发一次重载。默认 100ms，d <= 0 忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// Watcher 监视配置文件变更并自动重载。
//
// 监视的是文件所在目录：编辑器和 ConfigMap 更新常以"写临时文件再 rename"的方式替换文件，
// 直接监视文件会丢失事件。
type Watcher struct {
	cfg      Config
	fs       *fsnotify.Watcher
	filename string
	callback WatchCallback
	debounce time.Duration

	running   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewWatcher 创建监视器。cfg 必须由 New 从文件创建。
// 返回后需调用 Run 开始监视；不再使用时调用 Close 释放 fsnotify 资源。
func NewWatcher(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil || cfg.Path() == "" {
		return nil, ErrNotReloadable
	}
	o := &watchOptions{debounce: defaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(cfg.Path())
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fs.Close())
	}

	return &Watcher{
		cfg:      cfg,
		fs:       fs,
		filename: filepath.Base(cfg.Path()),
		callback: callback,
		debounce: o.debounce,
	}, nil
}

// Config 返回被监视的配置。
func (w *Watcher) Config() Config {
	return w.cfg
}

// Run 阻塞监视直到 ctx 结束或 Close 被调用，返回时释放 fsnotify 资源。
// 重复调用返回 ErrWatcherRunning。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer func() { _ = w.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.notify(w.cfg.Reload())

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.notify(fmt.Errorf("%w: %w", ErrWatch, err))
		}
	}
}

// Close 停止监视并释放资源，可重复调用。
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

// relevant 只关心目标文件的写入、创建和 rename。
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != w.filename {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) notify(err error) {
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}
