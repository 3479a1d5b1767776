package mathx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, Clamp(-5, 0, 100))
	assert.Equal(t, 100, Clamp(250, 0, 100))
	assert.Equal(t, 42, Clamp(42, 0, 100))
	// swapped bounds
	assert.Equal(t, 10, Clamp(3, 20, 10))
	assert.InDelta(t, 1.5, Clamp(1.5, 0.0, 2.0), 1e-9)
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 7, Abs(-7))
	assert.Equal(t, int64(7), Abs(int64(7)))
	assert.InDelta(t, 0.25, Abs(-0.25), 1e-12)
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{-300, 0},
		{0, 50},
		{300, 100},
		{150, 75},
		{-299, 0}, // (1*100)/600 truncates to 0
		{400, 116},
		{-400, -16},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MapRange(tt.in, -300, 300, 0, 100), "x=%d", tt.in)
	}
	assert.Equal(t, 5, MapRange(9, 3, 3, 5, 10))
}
