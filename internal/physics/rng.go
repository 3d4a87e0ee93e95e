package physics

import (
	"hash/fnv"
	"math/rand/v2"
)

// Stream names used by the generators in this package.
const (
	StreamCoupling    = "coupling"
	StreamDelay       = "delay"
	StreamDephasing   = "dephasing"
	StreamNoise       = "noise"
	StreamPhases      = "phases"
	StreamFrequencies = "frequencies"
)

// Streams derives independent, reproducible random sources from a single
// master seed. Each named subsystem gets its own source, so drawing more
// values in one subsystem never shifts the values of another.
//
// Streams is not safe for concurrent use.
type Streams struct {
	seed    uint64
	sources map[string]*rand.Rand
}

func NewStreams(seed uint64) *Streams {
	return &Streams{
		seed:    seed,
		sources: make(map[string]*rand.Rand),
	}
}

func (s *Streams) Seed() uint64 { return s.seed }

// Source returns the generator for a subsystem, creating it on first use.
func (s *Streams) Source(name string) *rand.Rand {
	if r, ok := s.sources[name]; ok {
		return r
	}
	r := rand.New(rand.NewPCG(s.seed, s.seed^fnv1a64(name)))
	s.sources[name] = r
	return r
}

func fnv1a64(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
