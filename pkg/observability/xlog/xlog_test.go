package xlog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xboot/pkg/context/xctx"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xrotate"
)

func build(t *testing.T, b *xlog.Builder) xlog.LoggerWithLevel {
	t.Helper()
	logger, cleanup, err := b.Build()
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := cleanup(); err != nil {
			t.Errorf("cleanup error: %v", err)
		}
	})
	return logger
}

func TestLogger_BasicLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug))

	ctx := context.Background()
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	output := buf.String()
	for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
		assert.Contains(t, output, want)
	}
}

func TestLogger_NilContext(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf))

	//nolint:staticcheck // SA1012: 测试 nil context
	logger.Info(nil, "still logged")
	assert.Contains(t, buf.String(), "still logged")
}

func TestLogger_WithAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetFormat("json"))

	logger.With(slog.String("service", "svc")).
		WithGroup("request").
		Info(context.Background(), "grouped", slog.String("method", "GET"))

	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, "svc", m["service"])
	group, ok := m["request"].(map[string]any)
	require.True(t, ok, "request group missing: %v", m)
	assert.Equal(t, "GET", group["method"])

	assert.Same(t, logger, logger.With())
	assert.Same(t, logger, logger.WithGroup(""))
}

func TestLogger_DynamicLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelWarn))
	ctx := context.Background()

	assert.False(t, logger.Enabled(ctx, xlog.LevelInfo))
	logger.Info(ctx, "hidden")
	assert.NotContains(t, buf.String(), "hidden")

	child := logger.With(slog.String("k", "v"))
	logger.SetLevel(xlog.LevelDebug)
	assert.Equal(t, xlog.LevelDebug, logger.GetLevel())

	child.Debug(ctx, "child visible")
	assert.Contains(t, buf.String(), "child visible")
}

func TestBuilder_Errors(t *testing.T) {
	_, _, err := xlog.New().SetLevelString("verbose").Build()
	assert.ErrorIs(t, err, xlog.ErrUnknownLevel)

	_, _, err = xlog.New().SetFormat("xml").Build()
	assert.ErrorIs(t, err, xlog.ErrUnknownFormat)

	// first-error-wins
	_, _, err = xlog.New().SetFormat("xml").SetLevelString("verbose").Build()
	assert.ErrorIs(t, err, xlog.ErrUnknownFormat)

	_, _, err = xlog.New().SetRotation("").Build()
	assert.ErrorIs(t, err, xrotate.ErrEmptyFilename)
}

func TestBuilder_SetFormat(t *testing.T) {
	var text, js bytes.Buffer
	build(t, xlog.New().SetOutput(&text).SetFormat(" TEXT ")).Info(context.Background(), "hello")
	build(t, xlog.New().SetOutput(&js).SetFormat("json")).Info(context.Background(), "hello")

	assert.Contains(t, text.String(), "msg=hello")
	assert.True(t, json.Valid(js.Bytes()), js.String())
}

func TestBuilder_SetAddSource(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetAddSource(true))
	logger.Info(context.Background(), "with source")
	assert.Contains(t, buf.String(), "xlog_test.go")

	buf.Reset()
	xlog.SetDefault(logger)
	t.Cleanup(xlog.ResetDefault)
	xlog.Info(context.Background(), "global with source")
	assert.Contains(t, buf.String(), "xlog_test.go")
}

func TestBuilder_FixedAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetAttrs(slog.String("service", "billing")))
	logger.Info(context.Background(), "fixed")
	assert.Contains(t, buf.String(), "service=billing")
}

func TestBuilder_Enrich(t *testing.T) {
	ctx, _ := xctx.WithComponent(context.Background(), "http")
	ctx, _ = xctx.WithRequestID(ctx, "req-1")

	var on, off bytes.Buffer
	build(t, xlog.New().SetOutput(&on)).Info(ctx, "enriched")
	build(t, xlog.New().SetOutput(&off).SetEnrich(false)).Info(ctx, "plain")

	assert.Contains(t, on.String(), "component=http")
	assert.Contains(t, on.String(), "request_id=req-1")
	assert.NotContains(t, off.String(), "component=")
}

func TestBuilder_SetReplaceAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := build(t, xlog.New().SetOutput(&buf).SetReplaceAttr(func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == "token" {
			return slog.String("token", "***")
		}
		return a
	}))
	logger.Info(context.Background(), "login", slog.String("token", "secret"))
	assert.Contains(t, buf.String(), "token=***")
	assert.NotContains(t, buf.String(), "secret")
}

func TestBuilder_SetRotation(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	logger, cleanup, err := xlog.New().SetRotation(file, xrotate.WithMaxSize(1)).Build()
	require.NoError(t, err)

	logger.Info(context.Background(), "to file")
	require.NoError(t, cleanup())
	require.NoError(t, cleanup(), "cleanup must be idempotent")

	data, err := readFile(file)
	require.NoError(t, err)
	assert.Contains(t, data, "to file")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestBuilder_SetOnError(t *testing.T) {
	var got []error
	logger := build(t, xlog.New().SetOutput(failingWriter{}).SetOnError(func(err error) {
		got = append(got, err)
	}))

	logger.Info(context.Background(), "lost")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Error(), "disk full")
	assert.Equal(t, uint64(1), xlog.ErrorCount(logger))

	panicky := build(t, xlog.New().SetOutput(failingWriter{}).SetOnError(func(error) { panic("boom") }))
	assert.NotPanics(t, func() { panicky.Error(context.Background(), "lost") })
	assert.Equal(t, uint64(2), xlog.ErrorCount(panicky))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    xlog.Level
		wantErr bool
	}{
		{"debug", xlog.LevelDebug, false},
		{" INFO ", xlog.LevelInfo, false},
		{"", xlog.LevelInfo, false},
		{"warning", xlog.LevelWarn, false},
		{"Error", xlog.LevelError, false},
		{"trace", xlog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := xlog.ParseLevel(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, xlog.ErrUnknownLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l xlog.Level
	require.NoError(t, l.UnmarshalText([]byte("warn")))
	assert.Equal(t, xlog.LevelWarn, l)
	assert.Equal(t, "WARN", l.String())
	assert.Error(t, l.UnmarshalText([]byte("loud")))
}

func TestAttrs(t *testing.T) {
	assert.Equal(t, slog.Attr{}, xlog.Err(nil))
	assert.Equal(t, "boom", xlog.Err(errors.New("boom")).Value.String())
	assert.Equal(t, "1.5s", xlog.Duration(1500*time.Millisecond).Value.String())
	assert.Equal(t, xlog.KeyComponent, xlog.Component("http").Key)
	assert.Equal(t, int64(3), xlog.Count(3).Value.Int64())
	assert.Equal(t, int64(404), xlog.StatusCode(404).Value.Int64())
	assert.Equal(t, ":8080", xlog.Addr(":8080").Value.String())
}

func TestGlobal(t *testing.T) {
	t.Cleanup(xlog.ResetDefault)

	xlog.ResetDefault()
	d1 := xlog.Default()
	assert.Same(t, d1, xlog.Default())

	var buf bytes.Buffer
	xlog.SetDefault(build(t, xlog.New().SetOutput(&buf).SetLevel(xlog.LevelDebug)))
	xlog.SetDefault(nil)

	ctx := context.Background()
	xlog.Debug(ctx, "g-debug")
	xlog.Info(ctx, "g-info")
	xlog.Warn(ctx, "g-warn")
	xlog.Error(ctx, "g-error")
	for _, want := range []string{"g-debug", "g-info", "g-warn", "g-error"} {
		assert.Contains(t, buf.String(), want)
	}
}

func TestDiscard(t *testing.T) {
	l := xlog.Discard()
	assert.NotPanics(t, func() { l.Error(context.Background(), "nothing") })
}

func TestNewEnrichHandler_NilBase(t *testing.T) {
	_, err := xlog.NewEnrichHandler(nil)
	assert.ErrorIs(t, err, xlog.ErrNilHandler)
}

func readFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	return strings.TrimSpace(string(b)), err
}
