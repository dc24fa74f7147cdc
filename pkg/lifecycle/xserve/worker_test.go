package xserve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xboot/pkg/config/xconf"
	"github.com/omeyang/xboot/pkg/distributed/xcron"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/resilience/xretry"
)

func TestTicker_RunsUntilCancelled(t *testing.T) {
	var ticks atomic.Int32
	unit := Ticker("ticker", 5*time.Millisecond, true, func(context.Context) error {
		ticks.Add(1)
		return nil
	}, discard)

	app, ch := startApp(t, unit)
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	app.Shutdown(nil)

	r := waitStopped(t, ch)
	assert.True(t, r.report.OK())
}

func TestTicker_ErrorsAreLoggedAndTolerated(t *testing.T) {
	var ticks atomic.Int32
	unit := Ticker("ticker", 5*time.Millisecond, false, func(context.Context) error {
		ticks.Add(1)
		return errors.New("probe failed")
	}, discard)

	app, ch := startApp(t, unit)
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	app.Shutdown(nil)
	assert.True(t, waitStopped(t, ch).report.OK())
}

func TestTicker_PermanentErrorFailsUnit(t *testing.T) {
	fatal := errors.New("credentials revoked")
	unit := Ticker("ticker", time.Hour, true, func(context.Context) error {
		return xretry.Permanent(fatal)
	}, discard)

	_, ch := startApp(t, unit)
	r := waitStopped(t, ch)
	f, ok := r.report.Failure("ticker")
	require.True(t, ok)
	assert.ErrorIs(t, f, fatal)
}

func TestTicker_InvalidArguments(t *testing.T) {
	_, ch := startApp(t,
		Ticker("no-interval", 0, false, func(context.Context) error { return nil }, discard),
		Ticker("no-func", time.Second, false, nil, discard),
	)
	r := waitStopped(t, ch)
	f, ok := r.report.Failure("no-interval")
	require.True(t, ok)
	assert.ErrorIs(t, f, ErrInvalidInterval)
	f, ok = r.report.Failure("no-func")
	require.True(t, ok)
	assert.ErrorIs(t, f, ErrNilFunc)
}

func TestIdle(t *testing.T) {
	app, ch := startApp(t, Idle("idle"))
	assert.Eventually(t, func() bool { return app.State().String() == "running" }, time.Second, time.Millisecond)
	app.Shutdown(nil)
	r := waitStopped(t, ch)
	assert.True(t, r.report.OK())
	require.Len(t, r.report.Outcomes, 1)
	assert.Equal(t, "idle", r.report.Outcomes[0].Name)
}

func TestCron_StartsAndStopsScheduler(t *testing.T) {
	s := xcron.New(xcron.WithLogger(xlog.Discard()))
	ran := make(chan struct{})
	_, err := s.AddFunc("@hourly", func(context.Context) error {
		close(ran)
		return nil
	}, xcron.WithImmediate())
	require.NoError(t, err)

	app, ch := startApp(t, Cron("cron", s, discard))
	<-ran
	app.Shutdown(nil)
	assert.True(t, waitStopped(t, ch).report.OK())
	assert.Equal(t, int64(1), s.Stats().SuccessCount())
}

func TestCron_NilScheduler(t *testing.T) {
	_, ch := startApp(t, Cron("cron", nil, discard))
	f, ok := waitStopped(t, ch).report.Failure("cron")
	require.True(t, ok)
	assert.ErrorIs(t, f, ErrNilServer)
}

func TestConfigWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heartbeat:\n  interval: 1s\n"), 0o600))
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	var reloads atomic.Int32
	w, err := xconf.NewWatcher(cfg, func(_ xconf.Config, err error) {
		if err == nil {
			reloads.Add(1)
		}
	}, xconf.WithDebounce(10*time.Millisecond))
	require.NoError(t, err)

	app, ch := startApp(t, ConfigWatch("config-watch", w))
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("heartbeat:\n  interval: 2s\n"), 0o600)
		return cfg.Client().String("heartbeat.interval") == "2s"
	}, 5*time.Second, 50*time.Millisecond)
	assert.Positive(t, reloads.Load())

	app.Shutdown(nil)
	assert.True(t, waitStopped(t, ch).report.OK())
}

func TestConfigWatch_NilWatcher(t *testing.T) {
	_, ch := startApp(t, ConfigWatch("config-watch", nil))
	f, ok := waitStopped(t, ch).report.Failure("config-watch")
	require.True(t, ok)
	assert.ErrorIs(t, f, ErrNilServer)
}
