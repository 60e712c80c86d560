package node

import "github.com/ryandielhenn/dist-sys/pkg/message"

// Context is what a handler gets to know about the envelope being handled.
type Context[T message.Payload] struct {
	// CorrelationID is the inbound msg_id a reply will point back to.
	CorrelationID *uint32
	Source        string
	Metadata      T
}

type EchoHandler interface {
	Echo(ctx Context[message.Echo], s Sender) error
}

type GenerateHandler interface {
	Generate(ctx Context[message.Generate], s Sender) error
}

type BroadcastHandler interface {
	Broadcast(ctx Context[message.Broadcast], s Sender) error
}

type ReadHandler interface {
	Read(ctx Context[message.Read], s Sender) error
}

type TopologyHandler interface {
	Topology(ctx Context[message.Topology], s Sender) error
}

// GossipHandler receives fire-and-forget gossip. Implementations must not
// Reply.
type GossipHandler interface {
	Gossip(ctx Context[message.Gossip], s Sender) error
}
