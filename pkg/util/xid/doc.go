// Package xid 基于 sony/sonyflake 生成按时间大致有序的唯一 ID。
//
// xapp 用它为每次 Run 生成 RunID，写入 xctx 后出现在所有日志与跨度中。
//
//	g, err := xid.NewGenerator(xid.WithMachineID(func() (uint16, error) { return 7, nil }))
//	id, err := g.NewString() // 例如 "1a2b3c4d5e6f7"
//
// 机器 ID 默认由 [DefaultMachineID] 获取。
package xid
