package analysis

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Chimera partitions oscillators by mean velocity.
type Chimera struct {
	MeanVelocity []float64
	Median       float64
	Coherent     []int
	Drifting     []int
}

// IsChimera reports whether both groups are populated.
func (c Chimera) IsChimera() bool {
	return len(c.Coherent) > 0 && len(c.Drifting) > 0
}

// CoherentFraction is the share of oscillators in the coherent group.
func (c Chimera) CoherentFraction() float64 {
	n := len(c.Coherent) + len(c.Drifting)
	if n == 0 {
		return 0
	}
	return float64(len(c.Coherent)) / float64(n)
}

// MeanVelocities averages each row of an N×C velocity trace over columns
// [from, C).
func MeanVelocities(trace mat.Matrix, from int) ([]float64, error) {
	rows, cols := trace.Dims()
	if from < 0 || from >= cols {
		return nil, dynamo.Configf("averaging start %d outside [0, %d)", from, cols)
	}
	out := make([]float64, rows)
	row := make([]float64, cols-from)
	for i := 0; i < rows; i++ {
		for c := from; c < cols; c++ {
			row[c-from] = trace.At(i, c)
		}
		out[i] = stat.Mean(row, nil)
	}
	return out, nil
}

// DetectChimera classifies oscillators whose mean velocity lies within tol
// of the population median as coherent, the rest as drifting.
func DetectChimera(trace mat.Matrix, from int, tol float64) (Chimera, error) {
	if tol < 0 || math.IsNaN(tol) {
		return Chimera{}, dynamo.Configf("tolerance must be non-negative, got %g", tol)
	}
	mean, err := MeanVelocities(trace, from)
	if err != nil {
		return Chimera{}, err
	}
	sorted := slices.Clone(mean)
	slices.Sort(sorted)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)

	ch := Chimera{MeanVelocity: mean, Median: median}
	for i, v := range mean {
		if math.Abs(v-median) <= tol {
			ch.Coherent = append(ch.Coherent, i)
		} else {
			ch.Drifting = append(ch.Drifting, i)
		}
	}
	return ch, nil
}
