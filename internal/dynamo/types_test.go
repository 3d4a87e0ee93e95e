package dynamo

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
		first int
	}{
		{"empty", State{}, true, -1},
		{"normal", State{1.0, 2.0, 3.0}, true, -1},
		{"with NaN", State{1.0, math.NaN()}, false, 1},
		{"with +Inf", State{math.Inf(1), 1.0}, false, 0},
		{"with -Inf", State{1.0, 2.0, math.Inf(-1)}, false, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.IsValid())
			assert.Equal(t, tt.first, tt.state.FirstInvalid())
		})
	}
}

func TestState_CloneAndNorm(t *testing.T) {
	s := State{3, 4}
	c := s.Clone()
	c[0] = 0
	assert.Equal(t, 3.0, s[0])
	assert.InDelta(t, 5.0, s.Norm(), 1e-12)
}

func TestStepError(t *testing.T) {
	err := &StepError{Step: 150, Time: 1.5, Oscillator: -1, Wrapped: ErrNumericInstability}
	assert.Equal(t, "step 150 (t=1.5000): "+ErrNumericInstability.Error(), err.Error())
	assert.True(t, errors.Is(err, ErrNumericInstability))

	err = &StepError{Step: 3, Time: 0.03, Oscillator: 2, Wrapped: ErrIndexOutOfRange}
	assert.Contains(t, err.Error(), "oscillator 2")

	wrapped := fmt.Errorf("run: %w", err)
	var se *StepError
	assert.True(t, errors.As(wrapped, &se))
	assert.Equal(t, 3, se.Step)
}

func TestShapeIsConfiguration(t *testing.T) {
	err := Shapef("noise %dx%d", 2, 3)
	assert.ErrorIs(t, err, ErrShape)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "noise 2x3")
}
