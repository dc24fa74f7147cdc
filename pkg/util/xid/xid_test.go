package xid

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedMachine(id uint16) Option {
	return WithMachineID(func() (uint16, error) { return id, nil })
}

func TestGenerator_UniqueAndOrdered(t *testing.T) {
	g, err := NewGenerator(fixedMachine(42))
	require.NoError(t, err)

	prev := int64(0)
	for range 1000 {
		id, err := g.New()
		require.NoError(t, err)
		assert.Greater(t, id, prev)
		prev = id

		c, err := Decompose(id)
		require.NoError(t, err)
		assert.Equal(t, int64(42), c.Machine)
	}
}

func TestGenerator_Concurrent(t *testing.T) {
	g, err := NewGenerator(fixedMachine(1))
	require.NoError(t, err)

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{})
		wg   sync.WaitGroup
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				s, err := g.NewString()
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[s] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 1600)
}

func TestGenerator_NewStringParse(t *testing.T) {
	g, err := NewGenerator(fixedMachine(3))
	require.NoError(t, err)

	s, err := g.NewString()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(s), 8)

	id, err := Parse(s)
	require.NoError(t, err)
	c, err := Decompose(id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.Machine)
}

func TestNewGenerator_Errors(t *testing.T) {
	machineErr := errors.New("no id")
	_, err := NewGenerator(WithMachineID(func() (uint16, error) { return 0, machineErr }))
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, machineErr)

	_, err = NewGenerator(fixedMachine(5), WithCheckMachineID(func(id uint16) bool { return id != 5 }))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewGenerator(fixedMachine(5), WithStartTime(time.Now().Add(time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestGenerator_Nil(t *testing.T) {
	var g *Generator
	_, err := g.New()
	assert.ErrorIs(t, err, ErrNilGenerator)

	_, err = (&Generator{}).NewString()
	assert.ErrorIs(t, err, ErrNilGenerator)
}

func TestGenerator_NextError(t *testing.T) {
	boom := errors.New("boom")
	g := &Generator{next: func() (int64, error) { return 0, boom }}
	_, err := g.New()
	assert.ErrorIs(t, err, boom)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"zz", 36*35 + 35, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"!", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidID, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestDecompose(t *testing.T) {
	id := int64(5)<<(machineBits+sequenceBits) | int64(7)<<machineBits | 9
	c, err := Decompose(id)
	require.NoError(t, err)
	assert.Equal(t, Components{ID: id, Time: 5, Sequence: 7, Machine: 9}, c)

	_, err = Decompose(0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestPackageNewString(t *testing.T) {
	t.Setenv(EnvMachineID, "11")
	a, errA := NewString()
	b, errB := NewString()
	if errA != nil {
		// 包级生成器可能已在其他环境下初始化失败，错误需稳定。
		assert.Equal(t, errA, errB)
		return
	}
	require.NoError(t, errB)
	assert.NotEqual(t, a, b)
}
