package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"google.golang.org/grpc"

	"github.com/omeyang/xboot/pkg/config/xconf"
	"github.com/omeyang/xboot/pkg/distributed/xcron"
	"github.com/omeyang/xboot/pkg/lifecycle/xapp"
	"github.com/omeyang/xboot/pkg/lifecycle/xserve"
	"github.com/omeyang/xboot/pkg/observability/xlog"
	"github.com/omeyang/xboot/pkg/observability/xsampling"
	"github.com/omeyang/xboot/pkg/observability/xtrace"
	"github.com/omeyang/xboot/pkg/resilience/xbreaker"
	"github.com/omeyang/xboot/pkg/util/xid"
	"github.com/omeyang/xboot/pkg/util/xsys"
)

// serve 构建并运行 App，阻塞直到所有组件退出。
func serve(ctx context.Context, cmd *cli.Command, stdout, stderr io.Writer) error {
	cfg, src, err := loadConfig(cmd)
	if err != nil {
		return &setupError{err: err}
	}

	logger, cleanup, err := buildLogger(cfg.Log, stderr)
	if err != nil {
		return &setupError{err: err}
	}
	defer func() { _ = cleanup() }()
	xlog.SetDefault(logger)
	defer xlog.ResetDefault()

	if cfg.Process.RaiseFileLimit {
		raiseFileLimit(ctx, cfg.Process.MaxOpenFiles, logger)
	}

	opts := []xapp.Option{
		xapp.WithName(cfg.App.Name),
		xapp.WithLogger(logger),
		xapp.WithDrainTimeout(cfg.App.DrainTimeout),
	}
	if gen, err := xid.NewGenerator(); err == nil {
		opts = append(opts, xapp.WithIDGenerator(gen))
	} else {
		logger.Warn(ctx, "id generator unavailable, falling back to uuid run ids", xlog.Err(err))
	}

	reg := xapp.NewRegistry()
	app := xapp.New(reg, opts...)
	release, err := registerUnits(reg, app, cfg, src, logger)
	if err != nil {
		return &setupError{err: err}
	}
	defer release()

	report, err := app.Run(ctx)
	printReport(stdout, stderr, report)
	if err != nil || !report.OK() {
		return &exitError{code: 1}
	}
	return nil
}

func buildLogger(cfg LogConfig, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetOutput(stderr).
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format)
	if cfg.File != "" {
		b = b.SetRotation(cfg.File)
	}
	return b.Build()
}

// registerUnits 按固定顺序注册组件：http、grpc、heartbeat、cron、config-watch。
//
// release 关闭已创建但可能未被 App 运行接管的资源，可重复调用；出错时已自动调用。
func registerUnits(reg *xapp.Registry, app *xapp.App, cfg Config, src xconf.Config, logger xlog.LoggerWithLevel) (release func(), err error) {
	var closers []func() error
	release = func() {
		for _, c := range closers {
			_ = c()
		}
	}
	defer func() {
		if err != nil {
			release()
		}
	}()

	sampler, err := xsampling.ByRequestID(cfg.Log.AccessSampleRate)
	if err != nil {
		return release, err
	}
	httpUnit := xserve.HTTP("http", &http.Server{
		Handler:           newHTTPHandler(app, logger, sampler),
		ReadHeaderTimeout: 5 * time.Second,
	},
		xserve.WithAddr(cfg.HTTP.Addr),
		xserve.WithShutdownTimeout(cfg.HTTP.ShutdownTimeout),
		xserve.WithLogger(logger),
	)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(xtrace.GRPCUnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(xtrace.GRPCStreamServerInterceptor()),
	)
	grpcUnit := xserve.GRPC("grpc", grpcServer,
		xserve.WithAddr(cfg.GRPC.Addr),
		xserve.WithShutdownTimeout(cfg.GRPC.ShutdownTimeout),
		xserve.WithLogger(logger),
	)

	units := []xapp.Servable{httpUnit, grpcUnit}
	if cfg.Heartbeat.Interval > 0 {
		units = append(units, newHeartbeat(cfg.Heartbeat, httpUnit, logger))
	}
	if cfg.Cron.StatsSpec != "" {
		sched := xcron.New(xcron.WithLogger(logger))
		if _, err := sched.AddFunc(cfg.Cron.StatsSpec, runtimeStats(logger), xcron.WithName("runtime-stats"), xcron.WithSkipIfRunning()); err != nil {
			return release, err
		}
		units = append(units, xserve.Cron("cron", sched, xserve.WithLogger(logger)))
	}
	if src != nil {
		w, werr := xconf.NewWatcher(src, onConfigReload(logger))
		if werr != nil {
			return release, werr
		}
		closers = append(closers, w.Close)
		units = append(units, xserve.ConfigWatch("config-watch", w))
	}

	for _, u := range units {
		if err := reg.Register(u); err != nil {
			return release, err
		}
	}
	return release, nil
}

// raiseFileLimit 失败只记录告警，不阻止启动。
func raiseFileLimit(ctx context.Context, ceiling uint64, logger xlog.Logger) {
	r, err := xsys.RaiseFileLimit(ceiling)
	switch {
	case errors.Is(err, xsys.ErrUnsupportedPlatform):
	case err != nil:
		logger.Warn(ctx, "raise file limit failed", xlog.Err(err))
	case r.Changed():
		logger.Info(ctx, "file limit raised",
			slog.Uint64("from", r.Before.Soft), slog.Uint64("to", r.After.Soft), slog.Uint64("hard", r.After.Hard))
	}
}

// newHTTPHandler 提供 /healthz（进程存活）与 /readyz（App 处于 running）。
func newHTTPHandler(app *xapp.App, logger xlog.Logger, sampler xsampling.Sampler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok\n")
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, _ *http.Request) {
		state := app.State()
		if state != xapp.StateRunning {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_, _ = io.WriteString(w, state.String()+"\n")
	})
	return xtrace.HTTPMiddleware()(xserve.AccessLog(xserve.WithLogger(logger), xserve.WithSampler(sampler))(mux))
}

// newHeartbeat 周期探测 target，连续失败后由熔断器暂停探测。
func newHeartbeat(cfg HeartbeatConfig, httpUnit *xserve.HTTPUnit, logger xlog.Logger) xapp.Servable {
	breaker := xbreaker.New("heartbeat",
		xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(cfg.FailureThreshold)),
		xbreaker.WithTimeout(cfg.OpenTimeout),
		xbreaker.WithOnStateChange(func(name string, from, to xbreaker.State) {
			logger.Warn(context.Background(), "breaker state changed",
				xlog.Component(name), slog.String("from", from.String()), slog.String("to", to.String()))
		}),
	)
	client := &http.Client{Timeout: cfg.Interval}

	return xserve.Ticker("heartbeat", cfg.Interval, false, func(ctx context.Context) error {
		target := cfg.Target
		if target == "" {
			addr := httpUnit.Addr()
			if addr == "" {
				return nil
			}
			target = "http://" + addr + "/healthz"
		}
		err := breaker.Do(ctx, func(ctx context.Context) error {
			return probe(ctx, client, target)
		})
		if xbreaker.IsBreakerError(err) {
			logger.Debug(ctx, "heartbeat skipped", xlog.Err(err))
			return nil
		}
		return err
	}, xserve.WithLogger(logger))
}

func probe(ctx context.Context, client *http.Client, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	xtrace.InjectToRequest(ctx, req)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("heartbeat %s: status %d", target, resp.StatusCode)
	}
	return nil
}

func runtimeStats(logger xlog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		logger.Info(ctx, "runtime stats",
			slog.Int("goroutines", runtime.NumGoroutine()),
			slog.Uint64("heap_alloc", ms.HeapAlloc),
			slog.Uint64("num_gc", uint64(ms.NumGC)),
		)
		return nil
	}
}

// onConfigReload 重载成功后应用新的日志级别，失败时保留原配置。
func onConfigReload(logger xlog.LoggerWithLevel) xconf.WatchCallback {
	return func(cfg xconf.Config, err error) {
		ctx := context.Background()
		if err != nil {
			logger.Warn(ctx, "config reload failed, keeping previous config", xlog.Err(err))
			return
		}
		level := cfg.Client().String("log.level")
		if level == "" {
			return
		}
		parsed, err := xlog.ParseLevel(level)
		if err != nil {
			logger.Warn(ctx, "config reload: invalid log level", xlog.Err(err))
			return
		}
		logger.SetLevel(parsed)
		logger.Info(ctx, "config reloaded", slog.String("log.level", parsed.String()))
	}
}

func printReport(stdout, stderr io.Writer, report *xapp.Report) {
	if report == nil {
		return
	}
	fmt.Fprintf(stdout, "xbootd: run %s: total=%d succeeded=%d failed=%d abandoned=%d elapsed=%s\n",
		report.RunID, report.Total, len(report.Succeeded), len(report.Failed), len(report.Abandoned),
		report.Elapsed.Round(time.Millisecond))
	for _, o := range report.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(stderr, "xbootd: %v\n", o.Err)
		}
	}
	if len(report.Abandoned) > 0 {
		fmt.Fprintf(stderr, "xbootd: abandoned: %s\n", strings.Join(report.Abandoned, ", "))
	}
	if report.Cause != nil && !errors.Is(report.Cause, context.Canceled) {
		fmt.Fprintf(stdout, "xbootd: shutdown cause: %v\n", report.Cause)
	}
}
