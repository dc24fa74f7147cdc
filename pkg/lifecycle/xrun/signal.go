package xrun

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// DefaultSignals 返回默认监听的系统信号：SIGHUP、SIGINT、SIGTERM、SIGQUIT。
//
// 每次调用返回新切片，调用者可安全修改。
func DefaultSignals() []os.Signal {
	return []os.Signal{
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	}
}

// NotifySignals 监听系统信号，收到第一个信号时以 *SignalError 调用 Cancel。
//
// signals 为空时使用 DefaultSignals()。返回的 stop 函数停止监听并等待内部
// goroutine 退出，可重复调用。
func (c *Coordinator) NotifySignals(signals ...os.Signal) (stop func()) {
	if len(signals) == 0 {
		signals = DefaultSignals()
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, signals...)
	stopWatch := c.watchSignals(ch)
	return func() {
		signal.Stop(ch)
		stopWatch()
	}
}

// watchSignals 从 ch 读取信号，测试通过它注入信号而无需发送真实系统信号。
func (c *Coordinator) watchSignals(ch <-chan os.Signal) (stop func()) {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		select {
		case sig := <-ch:
			c.opts.logger.Warn(c.ctx, "received signal",
				slog.String("coordinator", c.opts.name),
				slog.String("signal", sig.String()),
			)
			c.Cancel(&SignalError{Signal: sig})
		case <-c.ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			<-exited
		})
	}
}
