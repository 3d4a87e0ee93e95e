package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/physics"
)

var _ = Describe("RandomMatrices", func() {
	It("draws entries in range", func() {
		m, err := physics.RandomMatrices(8, physics.NewStreams(7))
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Validate(8)).To(Succeed())
		for i := 0; i < 8; i++ {
			for j := 0; j < 8; j++ {
				Expect(m.K.At(i, j)).To(And(BeNumerically(">=", 0), BeNumerically("<", 2*math.Pi)))
				Expect(m.Alpha.At(i, j)).To(And(BeNumerically(">=", 0), BeNumerically("<", 2*math.Pi)))
				Expect(m.Tau[i][j]).To(And(BeNumerically(">=", 0), BeNumerically("<=", 5)))
			}
		}
		Expect(m.MaxDelay()).To(BeNumerically("<=", 5))
	})

	It("is reproducible for a given seed", func() {
		a, err := physics.RandomMatrices(6, physics.NewStreams(42))
		Expect(err).NotTo(HaveOccurred())
		b, err := physics.RandomMatrices(6, physics.NewStreams(42))
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Equal(a.K, b.K)).To(BeTrue())
		Expect(mat.Equal(a.Alpha, b.Alpha)).To(BeTrue())
		Expect(a.Tau).To(Equal(b.Tau))

		c, err := physics.RandomMatrices(6, physics.NewStreams(43))
		Expect(err).NotTo(HaveOccurred())
		Expect(mat.Equal(a.K, c.K)).To(BeFalse())
	})

	It("keeps streams independent", func() {
		s1 := physics.NewStreams(1)
		s2 := physics.NewStreams(1)
		s2.Source(physics.StreamCoupling).Float64()
		Expect(s1.Source(physics.StreamNoise).Uint64()).To(Equal(s2.Source(physics.StreamNoise).Uint64()))
	})

	It("rejects an empty network", func() {
		_, err := physics.RandomMatrices(0, physics.NewStreams(1))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("NeighborCoupling", func() {
	It("sets kappa on neighbor pairs only", func() {
		m, err := physics.NeighborCoupling(5, 2, 0.5, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		Expect(m.K.RawRowView(0)).To(Equal([]float64{0, 0.5, 0.5, 0, 0}))
		Expect(m.K.RawRowView(4)).To(Equal([]float64{0, 0, 0.5, 0.5, 0}))
		Expect(m.MaxDelay()).To(Equal(0))
	})
})

var _ = Describe("Noise and initial conditions", func() {
	It("returns zeros for zero sigma", func() {
		n := physics.GaussianNoise(3, 4, 0, physics.NewStreams(1).Source(physics.StreamNoise))
		Expect(mat.Sum(n)).To(Equal(0.0))
	})

	It("draws reproducible gaussian samples", func() {
		a := physics.GaussianNoise(3, 50, 2, physics.NewStreams(9).Source(physics.StreamNoise))
		b := physics.GaussianNoise(3, 50, 2, physics.NewStreams(9).Source(physics.StreamNoise))
		Expect(mat.Equal(a, b)).To(BeTrue())
		r, c := a.Dims()
		Expect([]int{r, c}).To(Equal([]int{3, 50}))
	})

	It("draws phases on [0, 2π)", func() {
		for _, p := range physics.UniformPhases(100, physics.NewStreams(3).Source(physics.StreamPhases)) {
			Expect(p).To(And(BeNumerically(">=", 0), BeNumerically("<", 2*math.Pi)))
		}
	})

	It("handles degenerate frequency ranges", func() {
		src := physics.NewStreams(3).Source(physics.StreamFrequencies)
		Expect(physics.UniformFrequencies(3, 1, 1, src)).To(Equal([]float64{1, 1, 1}))
		Expect(physics.NormalFrequencies(2, 0.5, 0, src)).To(Equal([]float64{0.5, 0.5}))
	})
})
