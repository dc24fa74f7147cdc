package xapp

import "sync"

// Registry 按注册顺序保存组件，名称唯一。
//
// App.Run 开始后注册表冻结，之后的 Register 返回 ErrRegistryFrozen。
// 所有方法并发安全。
type Registry struct {
	mu     sync.RWMutex
	items  []Servable
	index  map[string]int
	frozen bool
}

// NewRegistry 创建空注册表。
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register 追加组件。失败时注册表不变。
func (r *Registry) Register(s Servable) error {
	if s == nil {
		return ErrNilServable
	}
	name := s.Name()
	if name == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return ErrRegistryFrozen
	}
	if _, ok := r.index[name]; ok {
		return &DuplicateComponentError{Name: name}
	}
	r.index[name] = len(r.items)
	r.items = append(r.items, s)
	return nil
}

// MustRegister 同 Register，失败时 panic。用于启动阶段的静态装配。
func (r *Registry) MustRegister(servables ...Servable) {
	for _, s := range servables {
		if err := r.Register(s); err != nil {
			panic(err)
		}
	}
}

// Servables 按注册顺序返回组件切片的拷贝。
func (r *Registry) Servables() []Servable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Servable, len(r.items))
	copy(out, r.items)
	return out
}

// Names 按注册顺序返回组件名称。
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.items))
	for i, s := range r.items {
		out[i] = s.Name()
	}
	return out
}

// Lookup 按名称查找组件。
func (r *Registry) Lookup(name string) (Servable, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.items[i], true
}

// Len 返回组件数量。
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Frozen 报告注册表是否已冻结。
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

func (r *Registry) freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}
