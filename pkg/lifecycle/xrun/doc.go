// Package xrun 提供组件运行时的关闭协调器（Coordinator）。
//
// # 概述
//
// Coordinator 持有唯一的取消信号，广播给所有运行中的单元（unit），
// 跟踪仍在运行的单元数量，并提供阻塞等待全部退出的操作。
// 任何持有者都可以观察信号，推进状态只能通过 Coordinator：
//
//	Active ──Cancel()──▶ CancellationRequested ──全部退出──▶ Drained
//
// 状态只能前进，不能回退；Cancel 是幂等的，并发调用只有一次真正生效。
//
// # 快速开始
//
//	c := xrun.New(ctx, xrun.WithName("billing"))
//	stop := c.NotifySignals() // SIGHUP/SIGINT/SIGTERM/SIGQUIT
//	defer stop()
//
//	_ = c.Spawn("worker", func(g xrun.Guard) {
//	    <-g.Done()            // 等待取消，然后优雅退出
//	})
//
//	c.AwaitAllDrained()
//
// # Guard
//
// [Guard] 是值类型，拷贝开销很小，所有拷贝观察同一个信号。
// 单元的唯一义务是在 Done() 关闭后尽快返回；Coordinator 本身不设全局超时，
// 单元可以在内部自行限定 drain 时间（如 HTTP Shutdown 超时）。
// Guard.Context() 携带 xctx 组件名，日志会自动带上 component 字段。
//
// # 取消原因
//
// Cancel(cause) 通过 context.WithCancelCause 保留原因：
//   - 收到信号时为 *SignalError（errors.Is(err, ErrSignal)）
//   - 父 context 取消时为父 context 的 cause
//   - Cancel(nil) 与单元自然退出时 Cause() 返回 nil
//
// # 超时包装
//
// [Coordinator.AwaitAllDrainedContext] 在 ctx 结束时放弃等待并返回
// ErrDrainIncomplete，仍在运行的单元不会被强制终止。
package xrun
