package metrics

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/kurasim/internal/analysis"
	"github.com/san-kum/kurasim/internal/dynamo"
)

// Coherence is the mean order parameter magnitude over observed columns.
type Coherence struct {
	name    string
	samples int
	total   float64
}

func NewCoherence() *Coherence {
	return &Coherence{name: "coherence"}
}

func (c *Coherence) Name() string { return c.name }

func (c *Coherence) Observe(_ int, _ float64, x dynamo.State) {
	c.total += cmplx.Abs(analysis.Order(x))
	c.samples++
}

func (c *Coherence) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.total / float64(c.samples)
}

func (c *Coherence) Reset() {
	c.total = 0
	c.samples = 0
}

// Locking is the fraction of observed columns whose order parameter
// magnitude reaches threshold.
type Locking struct {
	name      string
	threshold float64
	locked    int
	samples   int
}

func NewLocking(threshold float64) *Locking {
	return &Locking{
		name:      "locked_fraction",
		threshold: threshold,
	}
}

func (l *Locking) Name() string { return l.name }

func (l *Locking) Observe(_ int, _ float64, x dynamo.State) {
	l.samples++
	if cmplx.Abs(analysis.Order(x)) >= l.threshold {
		l.locked++
	}
}

func (l *Locking) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.locked) / float64(l.samples)
}

func (l *Locking) Reset() {
	l.locked = 0
	l.samples = 0
}

// Speed is the population mean of |dθ/dt|, estimated by finite differences
// between consecutive observed columns and averaged over time.
type Speed struct {
	name    string
	prev    dynamo.State
	prevT   float64
	total   float64
	samples int
}

func NewSpeed() *Speed {
	return &Speed{name: "mean_speed"}
}

func (s *Speed) Name() string { return s.name }

func (s *Speed) Observe(_ int, t float64, x dynamo.State) {
	if s.prev != nil && len(s.prev) == len(x) && t > s.prevT {
		var sum float64
		for i := range x {
			sum += math.Abs(x[i] - s.prev[i])
		}
		s.total += sum / float64(len(x)) / (t - s.prevT)
		s.samples++
	}
	if len(s.prev) != len(x) {
		s.prev = make(dynamo.State, len(x))
	}
	copy(s.prev, x)
	s.prevT = t
}

func (s *Speed) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Speed) Reset() {
	s.prev = nil
	s.prevT = 0
	s.total = 0
	s.samples = 0
}
