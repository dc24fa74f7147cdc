package xapp

// State 表示 App 的生命周期状态。
//
//	Idle → Running → Draining → Stopped
//
// 状态只前进不后退。
type State int32

const (
	// StateIdle 已创建，尚未 Run。
	StateIdle State = iota
	// StateRunning 组件已启动，尚未收到关闭请求。
	StateRunning
	// StateDraining 已请求关闭，等待组件退出。
	StateDraining
	// StateStopped Run 已返回。
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
