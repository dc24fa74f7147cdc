package xsampling

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/omeyang/xboot/pkg/context/xctx"
)

// KeyFunc 从 ctx 提取采样 key，相同 key 在相同比率下总得到相同结果。
type KeyFunc func(ctx context.Context) string

// KeyBasedSampler 按 key 的 xxhash 值做一致性采样。
// key 为空时退化为随机采样。
type KeyBasedSampler struct {
	rate    float64
	keyFunc KeyFunc
}

// NewKeyBasedSampler 创建一致性采样器。
func NewKeyBasedSampler(rate float64, keyFunc KeyFunc) (*KeyBasedSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	if keyFunc == nil {
		return nil, ErrNilKeyFunc
	}
	return &KeyBasedSampler{rate: rate, keyFunc: keyFunc}, nil
}

// ByRequestID 以 xctx 中的请求 ID 为 key 采样，同一请求的所有日志结论一致。
func ByRequestID(rate float64) (*KeyBasedSampler, error) {
	return NewKeyBasedSampler(rate, xctx.RequestID)
}

func (s *KeyBasedSampler) ShouldSample(ctx context.Context) bool {
	if s.rate <= 0 {
		return false
	}
	if s.rate >= 1 {
		return true
	}
	var key string
	if ctx != nil {
		key = s.keyFunc(ctx)
	}
	if key == "" {
		return rand.Float64() < s.rate
	}
	return float64(xxhash.Sum64String(key))/float64(math.MaxUint64) < s.rate
}

// Rate 返回采样比率。
func (s *KeyBasedSampler) Rate() float64 {
	return s.rate
}

var _ Sampler = (*KeyBasedSampler)(nil)
