package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/experiment"
)

// RunData is the JSON document written for a finished run.
type RunData struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Model       string             `json:"model"`
	Integrator  string             `json:"integrator"`
	Oscillators int                `json:"oscillators"`
	Seed        uint64             `json:"seed"`
	Start       int                `json:"start"`
	Steps       int                `json:"steps"`
	Times       []float64          `json:"times"`
	Phases      [][]float64        `json:"phases"`
	R           []float64          `json:"r"`
	Psi         []float64          `json:"psi"`
	Metrics     map[string]float64 `json:"metrics"`
	Coherent    []int              `json:"coherent,omitempty"`
	Drifting    []int              `json:"drifting,omitempty"`
}

// NewRunData collects the finalized columns of a run. Phases are stored
// per column, wrapped to [0, 2π) when wrap is set.
func NewRunData(e *experiment.Experiment, out *experiment.Outcome, wrap bool) RunData {
	traj := e.Trajectory
	cols := traj.Finalized() + 1
	data := RunData{
		ID:          out.ID,
		Name:        e.Config.Name,
		Model:       e.Config.Model,
		Integrator:  e.Method.Name(),
		Oscillators: traj.N(),
		Seed:        e.Config.Seed,
		Start:       e.Start,
		Steps:       cols,
		Times:       e.Grid.Points()[:cols],
		Phases:      make([][]float64, cols),
		R:           out.Order.R,
		Psi:         out.Order.Psi,
		Metrics:     out.Metrics,
	}
	for n := range data.Phases {
		col, _ := traj.Column(n)
		if wrap {
			for i, v := range col {
				col[i] = dynamo.Wrap(v)
			}
		}
		data.Phases[n] = col
	}
	if out.Chimera != nil {
		data.Coherent = out.Chimera.Coherent
		data.Drifting = out.Chimera.Drifting
	}
	return data
}

func WriteJSON(w io.Writer, data RunData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteCSV writes one row per finalized column: t, r, then every phase.
func WriteCSV(w io.Writer, data RunData) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, data.Oscillators+2)
	header = append(header, "t", "r")
	for i := 0; i < data.Oscillators; i++ {
		header = append(header, "theta_"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(header))
	for n, col := range data.Phases {
		row[0] = strconv.FormatFloat(data.Times[n], 'g', -1, 64)
		row[1] = strconv.FormatFloat(data.R[n], 'g', -1, 64)
		for i, v := range col {
			row[i+2] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
