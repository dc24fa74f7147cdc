package xid

import "errors"

var (
	// ErrInvalidID 表示 ID 非正数或无法解析。
	ErrInvalidID = errors.New("xid: invalid id")

	// ErrOverTimeLimit 表示时间分量溢出，生成器无法继续生成 ID。
	ErrOverTimeLimit = errors.New("xid: time component overflow")

	// ErrNoPrivateAddress 表示所有机器 ID 策略均失败且没有私有 IPv4 地址。
	ErrNoPrivateAddress = errors.New("xid: no private IP address found")

	// ErrInvalidConfig 表示 sonyflake 初始化失败（机器 ID 获取或校验不通过）。
	ErrInvalidConfig = errors.New("xid: invalid config")

	// ErrNilGenerator 表示使用了 nil 或零值 Generator。
	ErrNilGenerator = errors.New("xid: nil generator (use NewGenerator to create)")
)
