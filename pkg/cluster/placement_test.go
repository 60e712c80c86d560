package cluster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ryandielhenn/dist-sys/pkg/cluster"
)

var _ = Describe("Placement", func() {
	ids := cluster.IDs(5)

	It("Should return a cluster member for every value", func() {
		p := cluster.NewPlacement(ids, 64)
		for v := int64(0); v < 100; v++ {
			Expect(ids).To(ContainElement(p.Entry(v)))
		}
	})

	It("Should be stable for the same value", func() {
		a := cluster.NewPlacement(ids, 64)
		b := cluster.NewPlacement(ids, 64)
		for v := int64(0); v < 50; v++ {
			Expect(a.Entry(v)).To(Equal(b.Entry(v)))
		}
	})

	It("Should use more than one entry node", func() {
		p := cluster.NewPlacement(ids, 128)
		used := map[string]bool{}
		for v := int64(0); v < 1000; v++ {
			used[p.Entry(v)] = true
		}
		Expect(len(used)).To(BeNumerically(">", 1))
	})

	It("Should return nothing for an empty cluster", func() {
		Expect(cluster.NewPlacement(nil, 0).Entry(7)).To(BeEmpty())
	})
})
