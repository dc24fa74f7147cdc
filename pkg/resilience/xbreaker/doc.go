// Package xbreaker 基于 sony/gobreaker 提供熔断器。
//
// 熔断拒绝返回 *BreakerError，它声明不可重试，与 xretry 组合时会立即返回：
//
//	b := xbreaker.New("upstream", xbreaker.WithTripPolicy(xbreaker.NewConsecutiveFailures(3)))
//	err := b.Do(ctx, func(ctx context.Context) error { return ping(ctx) })
//	if xbreaker.IsOpen(err) {
//		// 降级
//	}
//
// context.Canceled 与 context.DeadlineExceeded 不计入失败统计。
package xbreaker
