package gossip

import (
	"slices"

	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/message"
	"github.com/ryandielhenn/dist-sys/pkg/node"
	"github.com/ryandielhenn/dist-sys/pkg/store"
)

// Node is the broadcast node. It is driven by a single node.Runtime and is
// not safe for concurrent use.
type Node struct {
	values     *store.Store
	neighbours []string
	// topology is nil until the first topology message.
	topology map[string][]string
	logger   *zap.Logger
}

type Option func(*Node)

func WithLogger(l *zap.Logger) Option {
	return func(n *Node) { n.logger = l }
}

func New(opts ...Option) *Node {
	n := &Node{values: store.New(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) Name() string { return "broadcast" }

// Values returns the known values in ascending order.
func (n *Node) Values() []int64 { return n.values.Snapshot() }

// Neighbours returns the neighbours assigned by topology.
func (n *Node) Neighbours() []string { return slices.Clone(n.neighbours) }

// Broadcast stores the value, starts a wave towards every neighbour and
// acknowledges. Without a topology there is nobody to tell, and the value is
// only stored.
func (n *Node) Broadcast(ctx node.Context[message.Broadcast], s node.Sender) error {
	n.add(ctx.Metadata.Message)

	wave := newInformed(n.neighbours...).with(s.NodeID())
	if err := n.fanOut(s, n.neighbours, wave); err != nil {
		return err
	}
	return s.Reply(message.BroadcastOk{})
}

func (n *Node) Read(_ node.Context[message.Read], s node.Sender) error {
	return s.Reply(message.ReadOk{Messages: n.values.Snapshot()})
}

// Topology records this node's neighbours. The first topology wins; later
// ones are acknowledged and ignored.
func (n *Node) Topology(ctx node.Context[message.Topology], s node.Sender) error {
	if n.topology != nil {
		n.logger.Warn("ignoring repeated topology", zap.String("src", ctx.Source))
		return s.Reply(message.TopologyOk{})
	}
	n.topology = ctx.Metadata.Topology
	if n.topology == nil {
		n.topology = map[string][]string{}
	}
	n.neighbours = slices.Clone(n.topology[s.NodeID()])
	n.logger.Info("topology", zap.Strings("neighbours", n.neighbours))
	return s.Reply(message.TopologyOk{})
}

// Gossip merges a peer's snapshot and forwards it to the neighbours the wave
// has not reached yet.
func (n *Node) Gossip(ctx node.Context[message.Gossip], s node.Sender) error {
	added := n.values.Merge(ctx.Metadata.Values)
	telemetry.ValuesKnown.Set(float64(n.values.Len()))

	seen := newInformed(ctx.Metadata.Informed...)
	wave := seen.with(n.neighbours...)

	var targets []string
	for _, peer := range n.neighbours {
		if seen.has(peer) {
			telemetry.GossipPruned.Inc()
			continue
		}
		targets = append(targets, peer)
	}
	n.logger.Debug("gossip",
		zap.String("src", ctx.Source),
		zap.Int("added", added),
		zap.Strings("forward", targets),
	)
	return n.fanOut(s, targets, wave)
}

func (n *Node) add(v int64) {
	if n.values.Add(v) {
		telemetry.ValuesKnown.Set(float64(n.values.Len()))
	}
}

func (n *Node) fanOut(s node.Sender, targets []string, wave informed) error {
	if len(targets) == 0 {
		return nil
	}
	msg := message.Gossip{Values: n.values.Snapshot(), Informed: wave.sorted()}
	for _, peer := range targets {
		if err := s.SendTo(peer, msg); err != nil {
			return err
		}
		telemetry.GossipSent.Inc()
	}
	return nil
}
