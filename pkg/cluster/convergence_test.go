package cluster_test

import (
	"fmt"
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ryandielhenn/dist-sys/pkg/cluster"
	"github.com/ryandielhenn/dist-sys/pkg/gossip"
	"github.com/ryandielhenn/dist-sys/pkg/message"
)

func newBroadcastNetwork(size int, topology string, opts ...cluster.Option) *cluster.Network {
	net := cluster.New(opts...)
	ids := cluster.IDs(size)
	for _, id := range ids {
		net.Add(id, gossip.New())
	}
	Expect(net.Init()).To(Succeed())
	t, ok := cluster.Named(topology, ids)
	Expect(ok).To(BeTrue())
	Expect(net.Topology(t)).To(Succeed())
	return net
}

type convergenceVars struct {
	size     int
	topology string
	values   int
	shuffle  bool
}

var convergence = []convergenceVars{
	{size: 5, topology: "line", values: 10},
	{size: 5, topology: "ring", values: 10, shuffle: true},
	{size: 9, topology: "grid", values: 20},
	{size: 16, topology: "grid", values: 20, shuffle: true},
	{size: 25, topology: "tree4", values: 30, shuffle: true},
	{size: 10, topology: "total", values: 10, shuffle: true},
}

var _ = Describe("Convergence", func() {
	for i, vars := range convergence {
		vars, seed := vars, int64(i+1)
		It(fmt.Sprintf("Should converge %d nodes on a %s topology (shuffled=%v)",
			vars.size, vars.topology, vars.shuffle), func() {
			var opts []cluster.Option
			if vars.shuffle {
				opts = append(opts, cluster.WithShuffle(seed))
			}
			net := newBroadcastNetwork(vars.size, vars.topology, opts...)
			ids := net.IDs()

			want := make([]int64, 0, vars.values)
			for v := 0; v < vars.values; v++ {
				net.Broadcast("c1", ids[(v*7)%len(ids)], int64(v))
				want = append(want, int64(v))
			}
			Expect(net.Drain()).To(Succeed())

			acks := net.TakeReplies("c1")
			Expect(acks).To(HaveLen(vars.values))
			for _, ack := range acks {
				Expect(ack.Body.Payload).To(Equal(message.BroadcastOk{}))
			}

			reads, err := net.Read("c2")
			Expect(err).ToNot(HaveOccurred())
			Expect(reads).To(HaveLen(vars.size))
			for id, values := range reads {
				Expect(values).To(Equal(want), "node %s", id)
			}
		})
	}

	It("Should send one gossip per edge on a line", func() {
		net := newBroadcastNetwork(6, "line")
		net.Broadcast("c1", "n0", 1)
		Expect(net.Drain()).To(Succeed())
		Expect(net.Delivered(message.TypeGossip)).To(Equal(5))
	})

	It("Should not re-flood a fully connected cluster", func() {
		net := newBroadcastNetwork(8, "total")
		net.Broadcast("c1", "n3", 1)
		Expect(net.Drain()).To(Succeed())
		Expect(net.Delivered(message.TypeGossip)).To(Equal(7))
	})

	It("Should terminate waves on cyclic topologies", func() {
		net := newBroadcastNetwork(5, "ring")
		net.Broadcast("c1", "n0", 1)
		Expect(net.Drain()).To(Succeed())
		Expect(net.Delivered(message.TypeGossip)).To(Equal(6))
	})
})

var _ = Describe("Network", func() {
	It("Should reply to a read after a broadcast", func() {
		net := newBroadcastNetwork(2, "line")
		net.Broadcast("c1", "n0", 5)
		Expect(net.Drain()).To(Succeed())
		net.TakeReplies("c1")

		id := net.Request("c1", "n1", message.Read{})
		Expect(net.Drain()).To(Succeed())
		replies := net.TakeReplies("c1")
		Expect(replies).To(HaveLen(1))
		Expect(*replies[0].Body.InReplyTo).To(Equal(id))
		Expect(replies[0].Body.Payload).To(Equal(message.ReadOk{Messages: []int64{5}}))
	})

	It("Should hand envelopes for unknown destinations to clients", func() {
		net := newBroadcastNetwork(2, "line")
		net.Request("c1", "nowhere", message.Read{})
		Expect(net.Drain()).To(Succeed())
		Expect(net.TakeReplies("nowhere")).To(HaveLen(1))

		reads, err := net.Read("c2")
		Expect(err).ToNot(HaveOccurred())
		Expect(reads["n0"]).To(BeEmpty())
	})

	It("Should answer uninitialised before init", func() {
		net := cluster.New()
		net.Add("n0", gossip.New())
		net.Broadcast("c1", "n0", 5)
		Expect(net.Drain()).To(Succeed())

		replies := net.TakeReplies("c1")
		Expect(replies).To(HaveLen(1))
		Expect(replies[0].Body.Payload).To(Equal(message.Error{
			Code: message.CodeUninitialised,
			Text: "node has not received init",
		}))
	})

	It("Should leave values unchanged when gossip is redelivered", func() {
		net := newBroadcastNetwork(3, "line")
		g := message.Gossip{Values: []int64{5}, Informed: []string{"n0", "n1", "n2"}}
		net.Request("n0", "n1", g)
		net.Request("n0", "n1", g)
		Expect(net.Drain()).To(Succeed())

		reads, err := net.Read("c2")
		Expect(err).ToNot(HaveOccurred())
		Expect(reads["n1"]).To(Equal([]int64{5}))
		Expect(slices.Contains(reads["n2"], 5)).To(BeFalse())
	})
})
