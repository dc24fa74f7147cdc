package main

import (
	"bytes"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"go.uber.org/goleak"

	"github.com/omeyang/xboot/pkg/config/xconf"
	"github.com/omeyang/xboot/pkg/lifecycle/xapp"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xsampling"
)

func TestRaiseFileLimit_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug).Build()
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	// ceiling 为 1 时目标不高于当前 soft limit，不会修改，也不应告警。
	raiseFileLimit(context.Background(), 1, logger)
	assert.NotContains(t, buf.String(), "raise file limit failed")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xbootd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const testConfig = `
app:
  name: xbootd-test
  drain_timeout: 5s
log:
  level: error
http:
  addr: 127.0.0.1:0
  shutdown_timeout: 1s
grpc:
  addr: 127.0.0.1:0
  shutdown_timeout: 1s
heartbeat:
  interval: 20ms
cron:
  stats_spec: "@every 1s"
process:
  raise_file_limit: false
`

func TestRun_GracefulStop(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"xbootd", "--config", writeConfig(t, testConfig)}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "total=5 succeeded=5 failed=0 abandoned=0")
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"xbootd", "-c", writeConfig(t, "heartbeat:\n  interval: 0s\ncron:\n  stats_spec: \"\"\n"),
		"--http-addr", "127.0.0.1:0", "--grpc-addr", "127.0.0.1:0", "--log-level", "error"}, &stdout, &stderr)

	assert.Equal(t, 0, code, stderr.String())
	// 只剩 http、grpc、config-watch。
	assert.Contains(t, stdout.String(), "total=3 succeeded=3")
}

func TestRun_UnitFailureExitsOne(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"xbootd",
		"--http-addr", occupied.Addr().String(), "--grpc-addr", "127.0.0.1:0", "--log-level", "error"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "failed=1")
	assert.Contains(t, stderr.String(), `component "http" failed`)
}

func TestRun_SetupErrorsExitTwo(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"xbootd", "--nope"}, "nope"},
		{"missing config", []string{"xbootd", "--config", "/nonexistent/xbootd.yaml"}, "load config"},
		{"bad log level", []string{"xbootd", "--log-level", "loud"}, "loud"},
		{"negative drain timeout", []string{"xbootd", "--drain-timeout=-1s"}, "drain_timeout"},
		{"bad sample rate", []string{"xbootd", "-c", writeConfig(t, "log:\n  access_sample_rate: 1.5\n")}, "access_sample_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr)
			assert.Equal(t, 2, code)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	var got Config
	cmd := createCommand(&bytes.Buffer{}, &bytes.Buffer{})
	cmd.Action = func(_ context.Context, cmd *cli.Command) error {
		var err error
		got, _, err = loadConfig(cmd)
		return err
	}

	path := writeConfig(t, "app:\n  name: custom\nhttp:\n  addr: \":1\"\nheartbeat:\n  target: http://example/healthz\n")
	require.NoError(t, cmd.Run(context.Background(), []string{"xbootd", "-c", path, "--http-addr", ":2", "--drain-timeout", "3s"}))

	assert.Equal(t, "custom", got.App.Name)
	assert.Equal(t, ":2", got.HTTP.Addr)
	assert.Equal(t, 3*time.Second, got.App.DrainTimeout)
	assert.Equal(t, ":9090", got.GRPC.Addr)
	assert.Equal(t, "http://example/healthz", got.Heartbeat.Target)
	assert.Equal(t, 10*time.Second, got.Heartbeat.Interval)
	assert.InDelta(t, 1.0, got.Log.AccessSampleRate, 0)
	assert.True(t, got.Process.RaiseFileLimit)
}

func TestHTTPHandler(t *testing.T) {
	app := xapp.New(xapp.NewRegistry(), xapp.WithLogger(xlog.Discard()))
	h := newHTTPHandler(app, xlog.Discard(), xsampling.Always())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "idle\n", rec.Body.String())
}

func TestProbe(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	client := srv.Client()
	require.NoError(t, probe(context.Background(), client, srv.URL))

	status = http.StatusBadGateway
	err := probe(context.Background(), client, srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestOnConfigReload(t *testing.T) {
	logger, cleanup, err := xlog.New().SetOutput(&bytes.Buffer{}).SetLevel(xlog.LevelInfo).Build()
	require.NoError(t, err)
	defer func() { _ = cleanup() }()
	cb := onConfigReload(logger)

	cfg, err := xconf.NewFromBytes([]byte("log:\n  level: debug\n"), xconf.FormatYAML)
	require.NoError(t, err)
	cb(cfg, nil)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())

	bad, err := xconf.NewFromBytes([]byte("log:\n  level: loud\n"), xconf.FormatYAML)
	require.NoError(t, err)
	cb(bad, nil)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())

	cb(cfg, assert.AnError)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())
}

func watchedConfig(t *testing.T) (Config, xconf.Config) {
	t.Helper()
	src, err := xconf.New(writeConfig(t, "app:\n  name: leak-check\n"))
	require.NoError(t, err)
	cfg := defaultConfig()
	cfg.Heartbeat.Interval = 0
	cfg.Cron.StatsSpec = ""
	return cfg, src
}

func TestRegisterUnits_SetupErrorClosesWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// 先运行一次空 App，使 Registry 冻结，注册必然失败。
	reg := xapp.NewRegistry()
	app := xapp.New(reg, xapp.WithLogger(xlog.Discard()), xapp.WithoutSignalHandler())
	_, err := app.Run(context.Background())
	require.NoError(t, err)

	cfg, src := watchedConfig(t)
	release, err := registerUnits(reg, app, cfg, src, xlog.Discard())
	require.ErrorIs(t, err, xapp.ErrRegistryFrozen)
	require.NotNil(t, release)
	release()
}

func TestRegisterUnits_ReleaseClosesUnstartedWatcher(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	reg := xapp.NewRegistry()
	app := xapp.New(reg, xapp.WithLogger(xlog.Discard()), xapp.WithoutSignalHandler())
	cfg, src := watchedConfig(t)
	release, err := registerUnits(reg, app, cfg, src, xlog.Discard())
	require.NoError(t, err)
	assert.Equal(t, []string{"http", "grpc", "config-watch"}, reg.Names())

	// App 从未运行，watcher 只能由 release 关闭；重复调用无副作用。
	release()
	release()
}
