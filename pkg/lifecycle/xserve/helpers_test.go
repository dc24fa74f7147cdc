package xserve

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xboot/pkg/lifecycle/xapp"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

var discard = WithLogger(xlog.Discard())

type runResult struct {
	report *xapp.Report
	err    error
}

// startApp 在后台运行只包含 units 的 App。
func startApp(t *testing.T, units ...xapp.Servable) (*xapp.App, <-chan runResult) {
	t.Helper()
	reg := xapp.NewRegistry()
	for _, u := range units {
		require.NoError(t, reg.Register(u))
	}
	app := xapp.New(reg, xapp.WithLogger(xlog.Discard()), xapp.WithoutSignalHandler())
	ch := make(chan runResult, 1)
	go func() {
		report, err := app.Run(context.Background())
		ch <- runResult{report, err}
	}()
	return app, ch
}

func waitStopped(t *testing.T, ch <-chan runResult) runResult {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
		return runResult{}
	}
}

func waitReady(t *testing.T, ready <-chan struct{}) {
	t.Helper()
	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("unit not ready")
	}
}

// noKeepAlive 避免空闲连接的 goroutine 被 goleak 判为泄漏。
func noKeepAlive() *http.Client {
	return &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
}

func fastBindRetry(attempts int) Option {
	return WithBindRetry(xretry.NewRetryer(
		xretry.WithRetryPolicy(xretry.NewFixedRetry(attempts)),
		xretry.WithBackoffPolicy(xretry.NewNoBackoff()),
	))
}
