package xid

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sony/sonyflake/v2"
)

// Sonyflake v2 默认位布局：39 位时间 + 8 位序列 + 16 位机器。
const (
	machineBits  = 16
	sequenceBits = 8
	machineMask  = (1 << machineBits) - 1
	sequenceMask = (1 << sequenceBits) - 1
)

// Components 是 ID 分解后的各部分。
type Components struct {
	ID int64
	// Time 为自起点以来的 10ms 单位数。
	Time     int64
	Sequence int64
	Machine  int64
}

// Generator 基于 Sonyflake 的唯一 ID 生成器，并发安全。
type Generator struct {
	next func() (int64, error)
}

// NewGenerator 创建生成器。
func NewGenerator(opts ...Option) (*Generator, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	machineID := o.machineID
	if machineID == nil {
		machineID = DefaultMachineID
	}
	settings := sonyflake.Settings{
		StartTime: o.startTime,
		MachineID: func() (int, error) {
			id, err := machineID()
			return int(id), err
		},
	}
	if o.checkMachineID != nil {
		settings.CheckMachineID = func(id int) bool {
			return o.checkMachineID(uint16(id))
		}
	}

	sf, err := sonyflake.New(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Generator{next: sf.NextID}, nil
}

// New 生成新的 ID。
func (g *Generator) New() (int64, error) {
	if g == nil || g.next == nil {
		return 0, ErrNilGenerator
	}
	id, err := g.next()
	if err != nil {
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
		return 0, err
	}
	return id, nil
}

// NewString 生成 base36 编码的 ID，12-13 个字符，按时间大致有序。
func (g *Generator) NewString() (string, error) {
	id, err := g.New()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}

var defaultGenerator = sync.OnceValues(func() (*Generator, error) {
	return NewGenerator()
})

// Default 返回包级生成器，首次调用时以默认选项创建。
// 创建失败的结果会被缓存，之后的调用返回同一错误。
func Default() (*Generator, error) {
	return defaultGenerator()
}

// NewString 使用包级生成器生成字符串 ID。
func NewString() (string, error) {
	g, err := Default()
	if err != nil {
		return "", err
	}
	return g.NewString()
}

// Parse 解析 NewString 生成的 base36 ID。
func Parse(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: value must be positive, got %d", ErrInvalidID, id)
	}
	return id, nil
}

// Decompose 按默认位布局分解 ID。
func Decompose(id int64) (Components, error) {
	if id <= 0 {
		return Components{}, fmt.Errorf("%w: value must be positive, got %d", ErrInvalidID, id)
	}
	return Components{
		ID:       id,
		Machine:  id & machineMask,
		Sequence: (id >> machineBits) & sequenceMask,
		Time:     id >> (machineBits + sequenceBits),
	}, nil
}
