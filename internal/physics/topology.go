package physics

import (
	"fmt"
	"slices"

	"github.com/san-kum/kurasim/internal/dynamo"
)

// Topology selects how neighbor distance is measured.
type Topology int

const (
	// OpenChain excludes indices outside [0, N); the ends have fewer neighbors.
	OpenChain Topology = iota
	// Ring measures distance modulo N.
	Ring
)

func (t Topology) String() string {
	switch t {
	case OpenChain:
		return "open"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

func ParseTopology(s string) (Topology, error) {
	switch s {
	case "", "open", "chain", "open_chain":
		return OpenChain, nil
	case "ring", "closed":
		return Ring, nil
	default:
		return 0, dynamo.Configf("unknown topology %q", s)
	}
}

// ValidateDepth checks 1 <= depth < n.
func ValidateDepth(n, depth int) error {
	if n <= 0 {
		return dynamo.Configf("oscillator count must be positive, got %d", n)
	}
	if depth < 1 || depth >= n {
		return dynamo.Configf("coupling depth must satisfy 1 <= M < N, got M=%d N=%d", depth, n)
	}
	return nil
}

// neighborhood stores adjacency in compressed rows: the neighbors of i are
// idx[offsets[i]:offsets[i+1]], sorted ascending.
type neighborhood struct {
	offsets []int
	idx     []int
}

func newNeighborhood(n, depth int, topo Topology) neighborhood {
	nb := neighborhood{
		offsets: make([]int, n+1),
		idx:     make([]int, 0, n*2*depth),
	}
	row := make([]int, 0, 2*depth)
	for i := 0; i < n; i++ {
		row = row[:0]
		for p := 1; p <= depth; p++ {
			for _, j := range [2]int{i - p, i + p} {
				switch topo {
				case Ring:
					j = ((j % n) + n) % n
					if j == i {
						continue
					}
				default:
					if j < 0 || j >= n {
						continue
					}
				}
				row = append(row, j)
			}
		}
		slices.Sort(row)
		row = slices.Compact(row)
		nb.idx = append(nb.idx, row...)
		nb.offsets[i+1] = len(nb.idx)
	}
	return nb
}

func (nb neighborhood) of(i int) []int {
	return nb.idx[nb.offsets[i]:nb.offsets[i+1]]
}

func (nb neighborhood) contains(i, j int) bool {
	_, found := slices.BinarySearch(nb.of(i), j)
	return found
}

// Neighbors returns the coupling neighborhood of every oscillator.
func Neighbors(n, depth int, topo Topology) ([][]int, error) {
	if err := ValidateDepth(n, depth); err != nil {
		return nil, err
	}
	nb := newNeighborhood(n, depth, topo)
	out := make([][]int, n)
	for i := range out {
		out[i] = slices.Clone(nb.of(i))
	}
	return out, nil
}
