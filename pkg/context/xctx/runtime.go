package xctx

import "context"

// =============================================================================
// 运行信息
// =============================================================================

// WithApp 将应用名称注入 context。
//
// 如果 ctx 为 nil，返回 ErrNilContext；name 为空返回 ErrEmptyValue。
func WithApp(ctx context.Context, name string) (context.Context, error) {
	return withString(ctx, keyApp, name)
}

// App 从 context 提取应用名称，不存在返回空字符串
func App(ctx context.Context) string {
	return stringValue(ctx, keyApp)
}

// WithComponent 将组件名称注入 context。
//
// xrun 在为每个组件创建 Guard 时调用，组件内部的日志因此自动带上 component 字段。
func WithComponent(ctx context.Context, name string) (context.Context, error) {
	return withString(ctx, keyComponent, name)
}

// Component 从 context 提取组件名称，不存在返回空字符串
func Component(ctx context.Context) string {
	return stringValue(ctx, keyComponent)
}

// WithRunID 将运行标识注入 context。
func WithRunID(ctx context.Context, runID string) (context.Context, error) {
	return withString(ctx, keyRunID, runID)
}

// RunID 从 context 提取运行标识，不存在返回空字符串
func RunID(ctx context.Context) string {
	return stringValue(ctx, keyRunID)
}
