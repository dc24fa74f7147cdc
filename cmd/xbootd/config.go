package main

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xboot/pkg/config/xconf"
)

// Config xbootd 配置文件结构。
type Config struct {
	App       AppConfig       `koanf:"app"`
	Log       LogConfig       `koanf:"log"`
	HTTP      ServerConfig    `koanf:"http"`
	GRPC      ServerConfig    `koanf:"grpc"`
	Heartbeat HeartbeatConfig `koanf:"heartbeat"`
	Cron      CronConfig      `koanf:"cron"`
	Process   ProcessConfig   `koanf:"process"`
}

type AppConfig struct {
	Name         string        `koanf:"name"`
	DrainTimeout time.Duration `koanf:"drain_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	// File 非空时写入文件并按 lumberjack 轮转。
	File string `koanf:"file"`
	// AccessSampleRate 成功请求访问日志的采样率，按 request_id 一致采样。
	AccessSampleRate float64 `koanf:"access_sample_rate"`
}

type ServerConfig struct {
	Addr            string        `koanf:"addr"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type HeartbeatConfig struct {
	Interval time.Duration `koanf:"interval"`
	// Target 为空时探测本进程的 /healthz。
	Target           string `koanf:"target"`
	FailureThreshold uint32 `koanf:"failure_threshold"`
	// OpenTimeout 熔断后等待多久再探测。
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

type CronConfig struct {
	// StatsSpec 运行时统计日志的 cron 表达式，空字符串禁用。
	StatsSpec string `koanf:"stats_spec"`
}

type ProcessConfig struct {
	// RaiseFileLimit 启动时把 RLIMIT_NOFILE soft limit 提到 hard limit。
	RaiseFileLimit bool `koanf:"raise_file_limit"`
	// MaxOpenFiles 提升的上限，0 表示不限。
	MaxOpenFiles uint64 `koanf:"max_open_files"`
}

func defaultConfig() Config {
	return Config{
		App:  AppConfig{Name: "xbootd", DrainTimeout: 15 * time.Second},
		Log:  LogConfig{Level: "info", Format: "text", AccessSampleRate: 1},
		HTTP: ServerConfig{Addr: ":8080", ShutdownTimeout: 10 * time.Second},
		GRPC: ServerConfig{Addr: ":9090", ShutdownTimeout: 10 * time.Second},
		Heartbeat: HeartbeatConfig{
			Interval:         10 * time.Second,
			FailureThreshold: 3,
			OpenTimeout:      30 * time.Second,
		},
		Cron:    CronConfig{StatsSpec: "@every 1m"},
		Process: ProcessConfig{RaiseFileLimit: true},
	}
}

// loadConfig 按 默认值 < 配置文件 < 命令行 的顺序合并配置。
// 返回的 xconf.Config 在未指定配置文件时为 nil。
func loadConfig(cmd *cli.Command) (Config, xconf.Config, error) {
	cfg := defaultConfig()

	var src xconf.Config
	if path := cmd.String(flagConfig); path != "" {
		var err error
		if src, err = xconf.New(path); err != nil {
			return cfg, nil, fmt.Errorf("load config: %w", err)
		}
		if err := src.Unmarshal("", &cfg); err != nil {
			return cfg, nil, fmt.Errorf("load config: %w", err)
		}
	}

	if cmd.IsSet(flagHTTPAddr) {
		cfg.HTTP.Addr = cmd.String(flagHTTPAddr)
	}
	if cmd.IsSet(flagGRPCAddr) {
		cfg.GRPC.Addr = cmd.String(flagGRPCAddr)
	}
	if cmd.IsSet(flagLogLevel) {
		cfg.Log.Level = cmd.String(flagLogLevel)
	}
	if cmd.IsSet(flagDrainTimeout) {
		cfg.App.DrainTimeout = cmd.Duration(flagDrainTimeout)
	}
	return cfg, src, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.App.Name == "":
		return errors.New("app.name is required")
	case c.App.DrainTimeout < 0:
		return errors.New("app.drain_timeout must not be negative")
	case c.Heartbeat.Interval < 0:
		return errors.New("heartbeat.interval must not be negative")
	case math.IsNaN(c.Log.AccessSampleRate) || c.Log.AccessSampleRate < 0 || c.Log.AccessSampleRate > 1:
		return errors.New("log.access_sample_rate must be in [0, 1]")
	}
	return nil
}
