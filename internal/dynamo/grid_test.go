package dynamo

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		points []float64
	}{
		{"empty", nil},
		{"single point", []float64{0}},
		{"repeated point", []float64{0, 0.1, 0.1}},
		{"decreasing", []float64{0, 0.2, 0.1}},
		{"NaN", []float64{0, math.NaN(), 1}},
		{"+Inf", []float64{0, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.points)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration), "got %v", err)
		})
	}
}

func TestNewGrid_CopiesInput(t *testing.T) {
	pts := []float64{0, 0.5, 2}
	g, err := NewGrid(pts)
	require.NoError(t, err)

	pts[1] = 99
	assert.Equal(t, 0.5, g.At(1))
	assert.Equal(t, 1.5, g.Step(1))
	assert.False(t, g.IsUniform(1e-9))
}

func TestUniform(t *testing.T) {
	g, err := Uniform(0, 0.05, 6)
	require.NoError(t, err)

	assert.Equal(t, 6, g.Len())
	assert.Equal(t, 0.0, g.Start())
	assert.Equal(t, 0.05, g.End())
	for n := 0; n < g.Len()-1; n++ {
		assert.InDelta(t, 0.01, g.Step(n), 1e-12)
	}
	assert.True(t, g.IsUniform(1e-9))
	assert.InDelta(t, 0.05, g.Duration(), 1e-15)
}

func TestUniform_Invalid(t *testing.T) {
	_, err := Uniform(0, 1, 1)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Uniform(1, 1, 10)
	assert.ErrorIs(t, err, ErrConfiguration)
}
