package xsampling

import "errors"

var (
	// ErrInvalidRate 表示采样比率不在 [0, 1] 内。
	ErrInvalidRate = errors.New("xsampling: rate must be in [0.0, 1.0]")
	// ErrNilKeyFunc 表示 KeyFunc 为 nil。
	ErrNilKeyFunc = errors.New("xsampling: keyFunc must not be nil")
)
