package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClampsIntoUnitSquare(t *testing.T) {
	tests := []struct {
		name           string
		x, y, w, h     float64
		ex, ey, ew, eh float64
	}{
		{"in bounds", 0.1, 0.2, 0.3, 0.4, 0.1, 0.2, 0.3, 0.4},
		{"negative origin", -0.5, -1, 0.5, 0.5, 0, 0, 0.5, 0.5},
		{"origin above one", 1.5, 2, 0.5, 0.5, 1, 1, 0, 0},
		{"width overflow", 0.8, 0.1, 0.5, 0.2, 0.8, 0.1, 0.2, 0.2},
		{"height overflow", 0.1, 0.9, 0.2, 0.8, 0.1, 0.9, 0.2, 0.1},
		{"oversized extent", 0, 0, 5, 5, 0, 0, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, w, h := Normalize(tt.x, tt.y, tt.w, tt.h)
			assert.Equal(t, tt.ex, x)
			assert.Equal(t, tt.ey, y)
			assert.Equal(t, tt.ew, w)
			assert.Equal(t, tt.eh, h)
		})
	}
}

func TestNormalizeIsTotal(t *testing.T) {
	inputs := [][4]float64{
		{0.123456789012345, 0.5, 0.987654321098765, 0.5},
		{-10, 10, -10, 10},
		{0.3333333333333333, 0.6666666666666666, 0.3333333333333333, 0.3333333333333333},
	}
	for _, in := range inputs {
		x, y, w, h := Normalize(in[0], in[1], in[2], in[3])
		assert.GreaterOrEqual(t, x, 0.0)
		assert.GreaterOrEqual(t, y, 0.0)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, x+w, 1+epsilon)
		assert.LessOrEqual(t, y+h, 1+epsilon)
	}
}

func TestNormalizeRoundsFloatNoise(t *testing.T) {
	x, _, _, _ := Normalize(0.1+0.2, 0, 0.1, 0.1) // 0.30000000000000004
	assert.Equal(t, 0.3, x)
}
