package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/kurasim/internal/config"
	"github.com/san-kum/kurasim/internal/experiment"
)

func finishedRun(t *testing.T) (*experiment.Experiment, *experiment.Outcome) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Oscillators = 4
	cfg.Depth = 1
	cfg.Time = config.TimeConfig{End: 1, Steps: 11}
	cfg.Frequencies = config.FrequencyConfig{Distribution: "constant", Mean: 3}
	e, err := experiment.New(cfg, experiment.NewRegistry())
	require.NoError(t, err)
	out, err := e.Run(context.Background())
	require.NoError(t, err)
	return e, out
}

func TestNewRunData(t *testing.T) {
	e, out := finishedRun(t)

	raw := NewRunData(e, out, false)
	assert.Equal(t, out.ID, raw.ID)
	assert.Equal(t, "rk4", raw.Integrator)
	assert.Equal(t, 11, raw.Steps)
	assert.Len(t, raw.Times, 11)
	assert.Len(t, raw.Phases, 11)
	assert.Equal(t, e.Trajectory.At(2, 10), raw.Phases[10][2])

	wrapped := NewRunData(e, out, true)
	for _, col := range wrapped.Phases {
		for _, v := range col {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.Less(t, v, 2*math.Pi)
		}
	}
	assert.Equal(t, e.Trajectory.At(2, 10), raw.Phases[10][2], "wrapping copies")
}

func TestWriteJSON(t *testing.T) {
	e, out := finishedRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewRunData(e, out, true)))

	var decoded RunData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, out.ID, decoded.ID)
	assert.Equal(t, 4, decoded.Oscillators)
	assert.Contains(t, decoded.Metrics, "coherence")
}

func TestWriteCSV(t *testing.T) {
	e, out := finishedRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, NewRunData(e, out, false)))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 12)
	assert.Equal(t, []string{"t", "r", "theta_0", "theta_1", "theta_2", "theta_3"}, rows[0])
	assert.Equal(t, "0", rows[1][0])
	assert.Equal(t, "1", rows[11][0])
}
