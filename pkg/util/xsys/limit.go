package xsys

// FileLimit 进程的 RLIMIT_NOFILE。
type FileLimit struct {
	Soft uint64
	Hard uint64
}

// Raised 报告 RaiseFileLimit 的结果。
type Raised struct {
	Before FileLimit
	After  FileLimit
}

// Changed 报告 soft limit 是否被提升。
func (r Raised) Changed() bool {
	return r.After.Soft != r.Before.Soft
}

// target 计算新的 soft limit：不超过 hard 与 ceiling（0 表示不设上限），且不降低现值。
func target(cur FileLimit, ceiling uint64) uint64 {
	next := cur.Hard
	if ceiling > 0 && ceiling < next {
		next = ceiling
	}
	if next < cur.Soft {
		return cur.Soft
	}
	return next
}
