package cluster_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ryandielhenn/dist-sys/pkg/cluster"
)

// connected reports whether every node is reachable from the first.
func connected(t cluster.Topology, ids []string) bool {
	seen := map[string]bool{ids[0]: true}
	frontier := []string{ids[0]}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		for _, peer := range t[next] {
			if !seen[peer] {
				seen[peer] = true
				frontier = append(frontier, peer)
			}
		}
	}
	return len(seen) == len(ids)
}

func symmetric(t cluster.Topology) bool {
	for a, peers := range t {
		for _, b := range peers {
			if !contains(t[b], a) {
				return false
			}
		}
	}
	return true
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

var _ = Describe("Topology", func() {
	ids := cluster.IDs(10)

	DescribeTable("generators",
		func(name string, edges int) {
			t, ok := cluster.Named(name, ids)
			Expect(ok).To(BeTrue())
			Expect(t).To(HaveLen(len(ids)))
			Expect(symmetric(t)).To(BeTrue())
			Expect(connected(t, ids)).To(BeTrue())
			total := 0
			for _, peers := range t {
				total += len(peers)
			}
			Expect(total / 2).To(Equal(edges))
		},
		Entry("line", "line", 9),
		Entry("ring", "ring", 10),
		Entry("grid", "grid", 13),
		Entry("tree2", "tree2", 9),
		Entry("tree4", "tree4", 9),
		Entry("total", "total", 45),
	)

	It("Should reject unknown names", func() {
		_, ok := cluster.Named("star", ids)
		Expect(ok).To(BeFalse())
	})

	It("Should name nodes from n0", func() {
		Expect(cluster.IDs(3)).To(Equal([]string{"n0", "n1", "n2"}))
	})
})
