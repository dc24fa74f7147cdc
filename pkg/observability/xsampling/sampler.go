package xsampling

import (
	"context"
	"math"
	"math/rand/v2"
)

// Sampler 决定一个事件是否被采样。
type Sampler interface {
	ShouldSample(ctx context.Context) bool
}

type fixedSampler bool

func (s fixedSampler) ShouldSample(context.Context) bool { return bool(s) }

// Always 采样所有事件。
func Always() Sampler { return fixedSampler(true) }

// Never 不采样任何事件。
func Never() Sampler { return fixedSampler(false) }

// RateSampler 按固定比率随机采样。
type RateSampler struct {
	rate float64
}

// NewRateSampler 创建随机采样器，rate 取值 [0, 1]，否则返回 ErrInvalidRate。
func NewRateSampler(rate float64) (*RateSampler, error) {
	if err := validateRate(rate); err != nil {
		return nil, err
	}
	return &RateSampler{rate: rate}, nil
}

func (s *RateSampler) ShouldSample(context.Context) bool {
	switch {
	case s.rate <= 0:
		return false
	case s.rate >= 1:
		return true
	default:
		return rand.Float64() < s.rate
	}
}

// Rate 返回采样比率。
func (s *RateSampler) Rate() float64 {
	return s.rate
}

func validateRate(rate float64) error {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return ErrInvalidRate
	}
	return nil
}

var (
	_ Sampler = fixedSampler(false)
	_ Sampler = (*RateSampler)(nil)
)
