package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/physics"
)

// LocalEntropy returns an N×T matrix of local Shannon entropies (nats).
// Only finalized columns are computed; the rest are zero.
func LocalEntropy(traj *dynamo.Trajectory, depth int, topo physics.Topology) (*mat.Dense, error) {
	n := traj.N()
	if err := physics.ValidateDepth(n, depth); err != nil {
		return nil, err
	}
	out := mat.NewDense(n, traj.Steps(), nil)
	width := 2*depth + 1

	window := make([]float64, 0, width)
	counts := make([]float64, width+2)
	for c := 0; c <= traj.Finalized(); c++ {
		x, _ := traj.View(c)
		for i := 0; i < n; i++ {
			window = window[:0]
			for k := i - depth; k <= i+depth; k++ {
				j := k
				if topo == physics.Ring {
					j = ((k % n) + n) % n
				} else if j < 0 || j >= n {
					continue
				}
				window = append(window, dynamo.Wrap(x[j]))
			}
			out.Set(i, c, windowEntropy(window, binCount(depth, x[i]), counts))
		}
	}
	return out, nil
}

// binCount is max(2, |⌊(2M+1) cos θ⌋|).
func binCount(depth int, theta float64) int {
	q := int(math.Abs(math.Floor(float64(2*depth+1) * math.Cos(theta))))
	return max(q, 2)
}

func windowEntropy(phases []float64, q int, scratch []float64) float64 {
	if cap(scratch) < q {
		scratch = make([]float64, q)
	}
	p := scratch[:q]
	for a := range p {
		p[a] = 0
	}
	w := 2 * math.Pi / float64(q)
	for _, th := range phases {
		a := int(th / w)
		if a >= q {
			a = q - 1
		}
		p[a]++
	}
	total := float64(len(phases))
	for a := range p {
		p[a] /= total
	}
	return stat.Entropy(p)
}
