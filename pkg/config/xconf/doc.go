// Package xconf 基于 koanf 加载 YAML/JSON 配置，并支持文件变更时自动重载。
//
//	cfg, err := xconf.New("/etc/xbootd/config.yaml")
//	var app AppConfig
//	err = cfg.Unmarshal("app", &app)
//
// [Watcher] 基于 fsnotify 监视配置文件，防抖后调用 Reload 并回调通知。
// Run 阻塞直到 ctx 结束，可直接作为 xserve.ConfigWatch 组件托管在 xapp 中。
package xconf
