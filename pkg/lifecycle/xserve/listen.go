package xserve

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

func defaultBindRetryer(logger xlog.Logger) *xretry.Retryer {
	return xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(defaultBindAttempts)),
		xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(
			xretry.WithInitialDelay(100*time.Millisecond),
			xretry.WithMaxDelay(2*time.Second),
		)),
		xretry.WithOnRetry(func(attempt int, err error) {
			logger.Warn(context.Background(), "listen failed, retrying",
				slog.Int("attempt", attempt), xlog.Err(err))
		}),
	)
}

// listen 绑定 TCP 地址，失败时按 retryer 重试。
func listen(ctx context.Context, r *xretry.Retryer, addr string) (net.Listener, error) {
	var lc net.ListenConfig
	l, err := xretry.DoWithResult(ctx, r, func(ctx context.Context) (net.Listener, error) {
		return lc.Listen(ctx, "tcp", addr)
	})
	if err != nil {
		return nil, fmt.Errorf("xserve: listen %s: %w", addr, err)
	}
	return l, nil
}

// endpoint 记录组件实际绑定的地址。
type endpoint struct {
	once  sync.Once
	ready chan struct{}
	mu    sync.RWMutex
	addr  net.Addr
}

func newEndpoint() *endpoint {
	return &endpoint{ready: make(chan struct{})}
}

func (e *endpoint) set(addr net.Addr) {
	e.once.Do(func() {
		e.mu.Lock()
		e.addr = addr
		e.mu.Unlock()
		close(e.ready)
	})
}

func (e *endpoint) String() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.addr == nil {
		return ""
	}
	return e.addr.String()
}
