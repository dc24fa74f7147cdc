package xmetrics

import "go.opentelemetry.io/otel/attribute"

// Attr 观测属性。
type Attr = attribute.KeyValue

// String 创建字符串属性。
func String(key, value string) Attr {
	return attribute.String(key, value)
}

// Int 创建整数属性。
func Int(key string, value int) Attr {
	return attribute.Int(key, value)
}
