package xconf

import "github.com/knadh/koanf/v2"

// Format 定义配置文件格式。
type Format string

const (
	// FormatYAML YAML 格式（K8s ConfigMap 推荐）。
	FormatYAML Format = "yaml"
	// FormatJSON JSON 格式。
	FormatJSON Format = "json"
)

// Config 定义配置接口。
// 基础读取操作直接使用 Client() 返回的 koanf 实例。
type Config interface {
	// Client 返回当前的 koanf 实例。Reload 会替换实例，调用方不要长期持有。
	Client() *koanf.Koanf

	// Unmarshal 将 path 下的配置反序列化到 target，path 为空表示整个配置。
	Unmarshal(path string, target any) error

	// Reload 重新读取配置文件。解析失败时保留旧配置。
	// 从字节创建的 Config 返回 ErrNotReloadable。
	Reload() error

	// Path 返回配置文件路径，从字节创建时为空。
	Path() string

	Format() Format
}
