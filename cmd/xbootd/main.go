// xbootd 是基于 xapp 的示例宿主进程：托管 HTTP、gRPC、心跳、定时任务与配置监视组件，
// 收到 SIGINT/SIGTERM 或任一组件失败后统一优雅退出。
//
// 用法:
//
//	xbootd [选项]
//
// 选项:
//
//	-c, --config         配置文件（yaml/json），修改后自动重载日志级别
//	    --http-addr      HTTP 监听地址 (默认: :8080)
//	    --grpc-addr      gRPC 监听地址 (默认: :9090)
//	    --log-level      日志级别 debug/info/warn/error (默认: info)
//	    --drain-timeout  等待组件退出的上限，0 表示一直等待 (默认: 15s)
//
// 退出码:
//
//	0: 所有组件正常退出
//	1: 有组件失败或退出等待超时
//	2: 参数或配置错误
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const (
	flagConfig       = "config"
	flagHTTPAddr     = "http-addr"
	flagGRPCAddr     = "grpc-addr"
	flagLogLevel     = "log-level"
	flagDrainTimeout = "drain-timeout"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// exitError 携带退出码，输出已由 Action 完成。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// setupError 表示启动前的参数或配置错误。
type setupError struct {
	err error
}

func (e *setupError) Error() string { return e.err.Error() }
func (e *setupError) Unwrap() error { return e.err }

func createCommand(stdout, stderr io.Writer) *cli.Command {
	defaults := defaultConfig()
	return &cli.Command{
		Name:      "xbootd",
		Usage:     "托管 HTTP/gRPC/后台组件的宿主进程",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
			&cli.StringFlag{
				Name:  flagHTTPAddr,
				Usage: "HTTP 监听地址",
				Value: defaults.HTTP.Addr,
			},
			&cli.StringFlag{
				Name:  flagGRPCAddr,
				Usage: "gRPC 监听地址",
				Value: defaults.GRPC.Addr,
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "日志级别 (debug/info/warn/error)",
				Value: defaults.Log.Level,
			},
			&cli.DurationFlag{
				Name:  flagDrainTimeout,
				Usage: "等待组件退出的上限，0 表示一直等待",
				Value: defaults.App.DrainTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return serve(ctx, cmd, stdout, stderr)
		},
		// 退出码统一由 run 决定，禁止 cli 直接 os.Exit。
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createCommand(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var setupErr *setupError
	if errors.As(err, &setupErr) {
		fmt.Fprintf(stderr, "xbootd: %v\n", setupErr)
		return 2
	}
	// 其余错误来自 cli 的参数解析。
	fmt.Fprintf(stderr, "xbootd: %v\n", err)
	return 2
}
