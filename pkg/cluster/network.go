// Package cluster simulates a cluster of nodes in memory. It stands in for
// the external harness: envelopes between nodes are queued and delivered one
// at a time, and envelopes addressed to anything that is not a node are
// collected as client replies.
package cluster

import (
	"math/rand"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/pkg/message"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

type Option func(*Network)

// WithShuffle delivers queued envelopes in a random order drawn from seed
// instead of FIFO.
func WithShuffle(seed int64) Option {
	return func(n *Network) { n.rng = rand.New(rand.NewSource(seed)) }
}

func WithLogger(l *zap.Logger) Option {
	return func(n *Network) { n.logger = l }
}

// Network is an in-memory, synchronous network of runtimes. It is not safe
// for concurrent use.
type Network struct {
	ids       []string
	runtimes  map[string]*node.Runtime
	queue     []message.Envelope
	replies   map[string][]message.Envelope
	clientIDs map[string]uint32
	rng       *rand.Rand
	logger    *zap.Logger
	delivered map[message.Type]int
}

func New(opts ...Option) *Network {
	n := &Network{
		runtimes:  make(map[string]*node.Runtime),
		replies:   make(map[string][]message.Envelope),
		clientIDs: make(map[string]uint32),
		delivered: make(map[message.Type]int),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Add attaches nd under id. The node is not initialised until Init.
func (n *Network) Add(id string, nd node.Node) {
	n.ids = append(n.ids, id)
	n.runtimes[id] = node.New(nd, node.OutboxFunc(n.enqueue), node.WithLogger(n.logger))
}

// IDs returns the node ids in the order they were added.
func (n *Network) IDs() []string { return slices.Clone(n.ids) }

func (n *Network) enqueue(env message.Envelope) error {
	n.queue = append(n.queue, env)
	return nil
}

// Request queues p from client to dest with a fresh client msg_id, which is
// returned.
func (n *Network) Request(client, dest string, p message.Payload) uint32 {
	n.clientIDs[client]++
	id := n.clientIDs[client]
	n.queue = append(n.queue, message.Envelope{
		Src:  client,
		Dest: dest,
		Body: message.Body{Payload: p, MsgID: message.ID(id)},
	})
	return id
}

// Drain delivers queued envelopes until none are left.
func (n *Network) Drain() error {
	for len(n.queue) > 0 {
		i := 0
		if n.rng != nil {
			i = n.rng.Intn(len(n.queue))
		}
		env := n.queue[i]
		n.queue = slices.Delete(n.queue, i, i+1)

		rt, ok := n.runtimes[env.Dest]
		if !ok {
			n.replies[env.Dest] = append(n.replies[env.Dest], env)
			continue
		}
		n.delivered[env.Body.Payload.Type()]++
		if err := rt.Dispatch(env); err != nil {
			return errors.Wrapf(err, "deliver %s to %s", env.Body.Payload.Type(), env.Dest)
		}
	}
	return nil
}

// Init sends init to every node and waits for the acknowledgements.
func (n *Network) Init() error {
	for _, id := range n.ids {
		n.Request("c0", id, message.Init{NodeID: id, NodeIDs: n.IDs()})
	}
	return n.expectAll("c0", message.TypeInitOk)
}

// Topology assigns adjacency to every node.
func (n *Network) Topology(adjacency map[string][]string) error {
	for _, id := range n.ids {
		n.Request("c0", id, message.Topology{Topology: adjacency})
	}
	return n.expectAll("c0", message.TypeTopologyOk)
}

func (n *Network) expectAll(client string, want message.Type) error {
	if err := n.Drain(); err != nil {
		return err
	}
	replies := n.TakeReplies(client)
	if len(replies) != len(n.ids) {
		return errors.Newf("%d %s replies for %d nodes", len(replies), want, len(n.ids))
	}
	for _, r := range replies {
		if got := r.Body.Payload.Type(); got != want {
			return errors.Newf("%s replied %s, want %s", r.Src, got, want)
		}
	}
	return nil
}

// Broadcast asks dest to broadcast v on behalf of client.
func (n *Network) Broadcast(client, dest string, v int64) uint32 {
	return n.Request(client, dest, message.Broadcast{Message: v})
}

// Read queries every node and returns the values each one reported.
func (n *Network) Read(client string) (map[string][]int64, error) {
	for _, id := range n.ids {
		n.Request(client, id, message.Read{})
	}
	if err := n.Drain(); err != nil {
		return nil, err
	}
	out := make(map[string][]int64, len(n.ids))
	for _, r := range n.TakeReplies(client) {
		read, isRead := r.Body.Payload.(message.ReadOk)
		if !isRead {
			return nil, errors.Newf("%s replied %s to read", r.Src, r.Body.Payload.Type())
		}
		out[r.Src] = read.Messages
	}
	return out, nil
}

// TakeReplies returns and forgets everything delivered to client.
func (n *Network) TakeReplies(client string) []message.Envelope {
	out := n.replies[client]
	delete(n.replies, client)
	return out
}

// Delivered reports how many envelopes of type t reached a node.
func (n *Network) Delivered(t message.Type) int { return n.delivered[t] }
