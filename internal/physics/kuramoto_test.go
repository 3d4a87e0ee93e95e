package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/physics"
)

func derive(sys dynamo.System, s dynamo.Snapshot) dynamo.State {
	dst := make(dynamo.State, sys.Size())
	Expect(sys.DeriveRange(dst, s, 0, sys.Size())).To(Succeed())
	return dst
}

var _ = Describe("Kuramoto", func() {
	omega := []float64{0.5, -1, 2, 0.25, 3}

	It("returns the natural frequencies when uncoupled", func() {
		k, err := physics.NewKuramoto(omega, 2, 0, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		x := dynamo.State{0.1, 4, -2, 7, 1.5}
		Expect(derive(k, dynamo.Snapshot{X: x})).To(Equal(dynamo.State(omega)))
	})

	It("averages the sine coupling over N", func() {
		k, err := physics.NewKuramoto([]float64{0, 0, 0}, 1, 1, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		x := dynamo.State{0, math.Pi / 2, math.Pi}
		d := derive(k, dynamo.Snapshot{X: x})
		Expect(d[0]).To(BeNumerically("~", 1.0/3, 1e-15))
		Expect(d[1]).To(BeNumerically("~", 0, 1e-15))
		Expect(d[2]).To(BeNumerically("~", -1.0/3, 1e-15))
	})

	It("only writes its own range", func() {
		k, err := physics.NewKuramoto(omega, 1, 1, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		dst := dynamo.State{-9, -9, -9, -9, -9}
		Expect(k.DeriveRange(dst, dynamo.Snapshot{X: make(dynamo.State, 5)}, 1, 3)).To(Succeed())
		Expect(dst).To(Equal(dynamo.State{-9, -1, 2, -9, -9}))
	})

	It("couples the ends of a ring", func() {
		open, err := physics.NewKuramoto([]float64{0, 0, 0, 0}, 1, 1, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		ring, err := physics.NewKuramoto([]float64{0, 0, 0, 0}, 1, 1, physics.Ring)
		Expect(err).NotTo(HaveOccurred())
		x := dynamo.State{0, 0, 0, 1}
		Expect(derive(open, dynamo.Snapshot{X: x})[0]).To(Equal(0.0))
		Expect(derive(ring, dynamo.Snapshot{X: x})[0]).To(BeNumerically("~", math.Sin(1)/4, 1e-15))
	})

	It("rejects non-finite frequencies", func() {
		_, err := physics.NewKuramoto([]float64{0, math.NaN()}, 1, 1, physics.OpenChain)
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})

	It("exposes kappa and depth as parameters", func() {
		k, err := physics.NewKuramoto(omega, 1, 1, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		Expect(k.GetParams()).To(HaveKeyWithValue("kappa", 1.0))

		Expect(k.SetParam("kappa", 2.5)).To(Succeed())
		Expect(k.Kappa()).To(Equal(2.5))

		Expect(k.SetParam("depth", 3)).To(Succeed())
		Expect(k.Neighbors(0)).To(Equal([]int{1, 2, 3}))

		Expect(k.SetParam("depth", 5)).To(MatchError(dynamo.ErrConfiguration))
		Expect(k.SetParam("depth", 1.5)).To(MatchError(dynamo.ErrConfiguration))
		Expect(k.SetParam("gamma", 1)).To(MatchError(dynamo.ErrConfiguration))
	})
})
