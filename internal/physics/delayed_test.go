package physics_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/physics"
)

// history builds a trajectory with the given columns finalized.
func history(cols ...[]float64) *dynamo.Trajectory {
	tr, err := dynamo.NewTrajectory(len(cols[0]), len(cols)+1)
	Expect(err).NotTo(HaveOccurred())
	for _, c := range cols {
		_, err := tr.Commit(c)
		Expect(err).NotTo(HaveOccurred())
	}
	return tr
}

var _ = Describe("DelayedKuramoto", func() {
	var (
		omega []float64
		mats  *physics.Matrices
	)

	BeforeEach(func() {
		omega = []float64{0.1, 0.2, 0.3, 0.4}
		var err error
		mats, err = physics.NeighborCoupling(4, 1, 1.5, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
	})

	It("matches the basic model without delay, dephasing or noise", func() {
		basic, err := physics.NewKuramoto(omega, 1, 1.5, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: omega, Depth: 1, Matrices: mats,
		})
		Expect(err).NotTo(HaveOccurred())

		x := []float64{0.3, 1.1, -0.4, 2.2}
		s := dynamo.Snapshot{X: x, Step: 0, History: history(x)}
		Expect(derive(ext, s)).To(Equal(derive(basic, s)))
	})

	It("returns the natural frequencies when K is zero", func() {
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: omega, Depth: 2, Matrices: physics.ZeroMatrices(4),
		})
		Expect(err).NotTo(HaveOccurred())
		x := []float64{5, 1, 2, 3}
		Expect(derive(ext, dynamo.Snapshot{X: x, History: history(x)})).To(Equal(dynamo.State(omega)))
	})

	It("includes the last oscillator", func() {
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: []float64{0, 0, 0, 0}, Depth: 1, Matrices: mats,
		})
		Expect(err).NotTo(HaveOccurred())
		x := []float64{0, 0, 0, 1}
		d := derive(ext, dynamo.Snapshot{X: x, History: history(x)})
		Expect(d[3]).To(BeNumerically("~", 1.5*math.Sin(-1)/4, 1e-15))
		Expect(d[2]).To(BeNumerically("~", 1.5*math.Sin(1)/4, 1e-15))
	})

	It("reads delayed phases from history and applies dephasing", func() {
		mats.Tau[0][1] = 1
		mats.Alpha.Set(0, 1, 0.25)
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: []float64{0, 0, 0, 0}, Depth: 1, Matrices: mats,
		})
		Expect(err).NotTo(HaveOccurred())

		past := []float64{0, 0.7, 0, 0}
		now := []float64{0.2, 1.9, 0, 0}
		d := derive(ext, dynamo.Snapshot{X: now, Step: 1, History: history(past, now)})
		Expect(d[0]).To(BeNumerically("~", 1.5*math.Sin(0.7-0.2+0.25)/4, 1e-15))
		Expect(d[1]).To(BeNumerically("~", 1.5*(math.Sin(0.2-1.9)+math.Sin(0-1.9))/4, 1e-15))
	})

	It("fails with an index error when history is missing", func() {
		mats.Tau[1][0] = 2
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: omega, Depth: 1, Matrices: mats,
		})
		Expect(err).NotTo(HaveOccurred())
		x := []float64{0, 0, 0, 0}
		dst := make(dynamo.State, 4)
		err = ext.DeriveRange(dst, dynamo.Snapshot{X: x, Step: 0, History: history(x)}, 0, 4)
		Expect(err).To(MatchError(dynamo.ErrIndexOutOfRange))
		var se *dynamo.StepError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Oscillator).To(Equal(1))
		Expect(se.Step).To(Equal(0))
	})

	Describe("Validate", func() {
		It("rejects delays that reach before the first column", func() {
			mats.Tau[2][3] = 3
			ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
				Frequencies: omega, Depth: 1, Matrices: mats,
			})
			Expect(err).NotTo(HaveOccurred())
			grid, err := dynamo.Uniform(0, 1, 10)
			Expect(err).NotTo(HaveOccurred())

			Expect(ext.Validate(grid, 2)).To(MatchError(dynamo.ErrConfiguration))
			Expect(ext.Validate(grid, 3)).To(Succeed())
			Expect(ext.RequiredHistory()).To(Equal(3))
		})

		It("ignores delays between uncoupled pairs", func() {
			mats.Tau[0][3] = 100
			ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
				Frequencies: omega, Depth: 1, Matrices: mats,
			})
			Expect(err).NotTo(HaveOccurred())
			grid, err := dynamo.Uniform(0, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ext.Validate(grid, 0)).To(Succeed())
		})

		It("checks the noise shape against the grid", func() {
			ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
				Frequencies: omega, Depth: 1, Matrices: mats,
				Noise: mat.NewDense(4, 5, nil),
			})
			Expect(err).NotTo(HaveOccurred())
			grid, err := dynamo.Uniform(0, 1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(ext.Validate(grid, 0)).To(MatchError(dynamo.ErrShape))
		})
	})

	Describe("noise policy", func() {
		newModel := func(policy physics.NoisePolicy) *physics.DelayedKuramoto {
			noise := mat.NewDense(4, 2, []float64{
				1, 0,
				1, 0,
				1, 0,
				1, 0,
			})
			ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
				Frequencies: []float64{0, 0, 0, 0}, Depth: 1,
				Matrices: physics.ZeroMatrices(4), Noise: noise, NoisePolicy: policy,
			})
			Expect(err).NotTo(HaveOccurred())
			return ext
		}
		x := []float64{0, 0, 0, 0}

		It("adds noise once per oscillator", func() {
			d := derive(newModel(physics.NoisePerOscillator), dynamo.Snapshot{X: x, History: history(x)})
			Expect(d).To(Equal(dynamo.State{1, 1, 1, 1}))
		})

		It("adds noise once per neighbor, averaged over N", func() {
			d := derive(newModel(physics.NoisePerPair), dynamo.Snapshot{X: x, History: history(x)})
			Expect(d).To(Equal(dynamo.State{0.25, 0.5, 0.5, 0.25}))
		})
	})

	It("scales every coupling weight", func() {
		ext, err := physics.NewDelayedKuramoto(physics.DelayedConfig{Frequencies: omega, Depth: 1, Matrices: mats})
		Expect(err).NotTo(HaveOccurred())
		Expect(ext.GetParams()).To(HaveKeyWithValue("scale", 1.0))
		Expect(ext.SetParam("scale", 2)).To(Succeed())
		Expect(ext.GetParams()).To(HaveKeyWithValue("scale", 2.0))

		basic, err := physics.NewKuramoto(omega, 1, 3, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		x := []float64{0.3, 1.1, -0.4, 2.0}
		s := dynamo.Snapshot{X: x, History: history(x)}
		want := derive(basic, s)
		for i, v := range derive(ext, s) {
			Expect(v).To(BeNumerically("~", want[i], 1e-12))
		}

		Expect(ext.SetParam("scale", math.Inf(1))).To(MatchError(dynamo.ErrConfiguration))
		Expect(ext.SetParam("kappa", 1)).To(MatchError(dynamo.ErrConfiguration))
	})

	It("rejects mismatched matrices", func() {
		_, err := physics.NewDelayedKuramoto(physics.DelayedConfig{
			Frequencies: omega, Depth: 1, Matrices: physics.ZeroMatrices(3),
		})
		Expect(err).To(MatchError(dynamo.ErrShape))

		_, err = physics.NewDelayedKuramoto(physics.DelayedConfig{Frequencies: omega, Depth: 1})
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})
