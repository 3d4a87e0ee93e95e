package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrConfiguration indicates invalid setup detected before stepping.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrShape indicates mismatched array dimensions. It is a configuration error.
	ErrShape = fmt.Errorf("%w: shape mismatch", ErrConfiguration)

	// ErrNumericInstability indicates a NaN or Inf in a derivative or state.
	ErrNumericInstability = errors.New("dynamo: numeric instability (NaN or Inf detected)")

	// ErrIndexOutOfRange indicates a history lookup outside the finalized columns.
	ErrIndexOutOfRange = errors.New("dynamo: history index out of range")
)

// Configf returns a configuration error with context.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Shapef returns a shape mismatch error with context.
func Shapef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrShape, fmt.Sprintf(format, args...))
}

// StepError wraps an error with the grid step at which it occurred.
// Oscillator is -1 when the failure is not tied to a single oscillator.
type StepError struct {
	Step       int
	Time       float64
	Oscillator int
	Wrapped    error
}

func (e *StepError) Error() string {
	if e.Oscillator >= 0 {
		return fmt.Sprintf("step %d (t=%.4f), oscillator %d: %v", e.Step, e.Time, e.Oscillator, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
