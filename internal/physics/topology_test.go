package physics_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kurasim/internal/dynamo"
	"github.com/san-kum/kurasim/internal/physics"
)

var _ = Describe("Neighbors", func() {
	It("excludes out-of-range indices on an open chain", func() {
		nb, err := physics.Neighbors(5, 2, physics.OpenChain)
		Expect(err).NotTo(HaveOccurred())
		Expect(nb[0]).To(Equal([]int{1, 2}))
		Expect(nb[1]).To(Equal([]int{0, 2, 3}))
		Expect(nb[2]).To(Equal([]int{0, 1, 3, 4}))
		Expect(nb[4]).To(Equal([]int{2, 3}))
		for _, row := range nb {
			for _, j := range row {
				Expect(j).To(And(BeNumerically(">=", 0), BeNumerically("<", 5)))
			}
		}
	})

	It("wraps on a ring without duplicates", func() {
		nb, err := physics.Neighbors(5, 2, physics.Ring)
		Expect(err).NotTo(HaveOccurred())
		Expect(nb[0]).To(Equal([]int{1, 2, 3, 4}))
		Expect(nb[4]).To(Equal([]int{0, 1, 2, 3}))

		nb, err = physics.Neighbors(4, 2, physics.Ring)
		Expect(err).NotTo(HaveOccurred())
		Expect(nb[0]).To(Equal([]int{1, 2, 3}))
	})

	DescribeTable("rejects invalid depth",
		func(n, depth int) {
			_, err := physics.Neighbors(n, depth, physics.OpenChain)
			Expect(err).To(MatchError(dynamo.ErrConfiguration))
		},
		Entry("zero depth", 5, 0),
		Entry("depth equal to N", 5, 5),
		Entry("no oscillators", 0, 1),
	)

	It("parses topology names", func() {
		topo, err := physics.ParseTopology("ring")
		Expect(err).NotTo(HaveOccurred())
		Expect(topo).To(Equal(physics.Ring))
		Expect(topo.String()).To(Equal("ring"))

		topo, err = physics.ParseTopology("")
		Expect(err).NotTo(HaveOccurred())
		Expect(topo).To(Equal(physics.OpenChain))

		_, err = physics.ParseTopology("torus")
		Expect(err).To(MatchError(dynamo.ErrConfiguration))
	})
})
