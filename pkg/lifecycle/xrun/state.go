package xrun

// State 取消信号的状态，只能前进。
type State int32

const (
	// StateActive 未请求取消
	StateActive State = iota
	// StateCancellationRequested 已请求取消，单元正在退出
	StateCancellationRequested
	// StateDrained 所有单元均已退出
	StateDrained
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateCancellationRequested:
		return "cancellation_requested"
	case StateDrained:
		return "drained"
	default:
		return "unknown"
	}
}
