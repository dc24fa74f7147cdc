package xsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	tests := []struct {
		name    string
		cur     FileLimit
		ceiling uint64
		want    uint64
	}{
		{"raise to hard", FileLimit{Soft: 1024, Hard: 4096}, 0, 4096},
		{"ceiling below hard", FileLimit{Soft: 1024, Hard: 4096}, 2048, 2048},
		{"ceiling above hard", FileLimit{Soft: 1024, Hard: 4096}, 1 << 20, 4096},
		{"never lowers", FileLimit{Soft: 4096, Hard: 8192}, 1024, 4096},
		{"already at hard", FileLimit{Soft: 4096, Hard: 4096}, 0, 4096},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, target(tt.cur, tt.ceiling))
		})
	}
}

func TestRaised_Changed(t *testing.T) {
	assert.False(t, Raised{Before: FileLimit{Soft: 1}, After: FileLimit{Soft: 1}}.Changed())
	assert.True(t, Raised{Before: FileLimit{Soft: 1}, After: FileLimit{Soft: 2}}.Changed())
}
