// Package xapp 是进程内组件的运行时：注册、并发启动、统一关闭、汇总结果。
//
// # 基本用法
//
//	reg := xapp.NewRegistry()
//	reg.MustRegister(httpUnit, grpcUnit, xapp.Func("worker", runWorker))
//
//	app := xapp.New(reg, xapp.WithName("orders"), xapp.WithDrainTimeout(30*time.Second))
//	report, err := app.Run(ctx)
//	if err != nil || !report.OK() {
//		os.Exit(1)
//	}
//
// # 关闭语义
//
// 以下任一事件触发唯一一次关闭请求，所有组件通过 xrun.Guard 观察到：
//   - 某个组件返回错误或 panic（记为 *UnitFailure）
//   - 收到 SIGHUP/SIGINT/SIGTERM/SIGQUIT（可用 WithSignals/WithoutSignalHandler 调整）
//   - Run 的 ctx 被取消
//   - 调用 App.Shutdown
//
// App 从不强行终止组件。失败的组件只会让其它组件被"请求"退出，
// 它们仍按自己的节奏完成清理。关闭请求之后以 context.Canceled 退出的组件计为成功。
//
// # 状态
//
//	Idle → Running → Draining → Stopped
//
// 全部组件自然退出时同样经过 Draining。App 只能运行一次，第二次 Run 返回 ErrNotIdle。
package xapp
