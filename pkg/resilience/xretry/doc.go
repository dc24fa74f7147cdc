// Package xretry 提供基于 avast/retry-go 的策略化重试。
//
// RetryPolicy 决定是否重试，BackoffPolicy 决定等待多久：
//
//	r := xretry.NewRetryer(
//		xretry.WithRetryPolicy(xretry.NewFixedRetry(5)),
//		xretry.WithBackoffPolicy(xretry.NewExponentialBackoff(xretry.WithInitialDelay(50*time.Millisecond))),
//	)
//	err := r.Do(ctx, func(ctx context.Context) error { return bind(ctx) })
//
// xserve 的 HTTP 与 gRPC 组件用它重试端口绑定。
// 不应重试的错误用 [Permanent] 包装。
package xretry
