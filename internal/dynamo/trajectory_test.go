package dynamo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrajectory_Invalid(t *testing.T) {
	_, err := NewTrajectory(0, 10)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewTrajectory(3, 1)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestTrajectory_AccessContract(t *testing.T) {
	tr, err := NewTrajectory(3, 4)
	require.NoError(t, err)
	assert.Equal(t, -1, tr.Finalized())

	_, err = tr.View(0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	require.NoError(t, tr.SetInitial([]float64{0, 1, 2}))
	assert.Equal(t, 0, tr.Finalized())
	assert.Error(t, tr.SetInitial([]float64{0, 1, 2}), "initial condition is write-once")

	_, err = tr.Phase(1, 1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange, "column 1 not finalized yet")
	_, err = tr.Phase(1, -1)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = tr.Phase(3, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	v, err := tr.Phase(2, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	n, err := tr.Commit([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = tr.Commit([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShape)

	_, err = tr.Commit([]float64{0, 0, 0})
	require.NoError(t, err)
	_, err = tr.Commit([]float64{0, 0, 0})
	require.NoError(t, err)
	_, err = tr.Commit([]float64{0, 0, 0})
	assert.ErrorIs(t, err, ErrIndexOutOfRange, "buffer is full")
}

func TestTrajectory_ColumnIsCopy(t *testing.T) {
	tr, err := NewTrajectory(2, 3)
	require.NoError(t, err)
	src := []float64{1, 2}
	require.NoError(t, tr.SetInitial(src))

	src[0] = 42
	c, err := tr.Column(0)
	require.NoError(t, err)
	assert.Equal(t, State{1, 2}, c)

	c[1] = 99
	assert.Equal(t, 2.0, tr.At(1, 0))
}

func TestTrajectory_HoldInitial(t *testing.T) {
	tr, err := NewTrajectory(2, 5)
	require.NoError(t, err)

	assert.Error(t, tr.HoldInitial(2), "requires column 0")

	require.NoError(t, tr.SetInitial([]float64{0.5, 1.5}))
	require.NoError(t, tr.HoldInitial(3))
	assert.Equal(t, 3, tr.Finalized())
	for n := 0; n <= 3; n++ {
		assert.Equal(t, 0.5, tr.At(0, n))
		assert.Equal(t, 1.5, tr.At(1, n))
	}

	tr2, _ := NewTrajectory(2, 5)
	require.NoError(t, tr2.SetInitial([]float64{0, 0}))
	assert.ErrorIs(t, tr2.HoldInitial(4), ErrConfiguration)
}

func TestTrajectory_RowAndMatrix(t *testing.T) {
	tr, err := NewTrajectory(2, 3)
	require.NoError(t, err)
	require.NoError(t, tr.SetInitial([]float64{1, 4}))
	_, _ = tr.Commit([]float64{2, 5})
	_, _ = tr.Commit([]float64{3, 6})

	assert.Equal(t, []float64{1, 2, 3}, tr.Row(0))
	assert.Equal(t, []float64{4, 5, 6}, tr.Row(1))

	m := tr.Matrix()
	r, c := m.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, 5.0, m.At(1, 1))
	assert.Equal(t, 3.0, m.At(0, 2))
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{2*math.Pi + 1, 1},
		{-1, 2*math.Pi - 1},
		{-4 * math.Pi, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Wrap(tt.in), 1e-12, "Wrap(%v)", tt.in)
	}

	tr, _ := NewTrajectory(1, 2)
	_ = tr.SetInitial([]float64{-1})
	_, _ = tr.Commit([]float64{7})
	w := tr.Wrapped()
	assert.InDelta(t, 2*math.Pi-1, w.At(0, 0), 1e-12)
	assert.InDelta(t, 7-2*math.Pi, w.At(0, 1), 1e-12)
	assert.Equal(t, -1.0, tr.At(0, 0), "Wrapped must not modify the trajectory")
}
