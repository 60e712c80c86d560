package node

import (
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/message"
)

func (rt *Runtime) route(env message.Envelope) error {
	if typ := env.Body.Payload.Type(); typ.Reply() {
		panic(errors.AssertionFailedf(
			"received %s from %s; this node never issues the request it answers",
			typ, env.Src,
		))
	}
	switch p := env.Body.Payload.(type) {
	case message.Init:
		return rt.initialise(env, p)
	case message.Echo:
		return serve(rt, env, p, EchoHandler.Echo)
	case message.Generate:
		return serve(rt, env, p, GenerateHandler.Generate)
	case message.Broadcast:
		return serve(rt, env, p, BroadcastHandler.Broadcast)
	case message.Read:
		return serve(rt, env, p, ReadHandler.Read)
	case message.Topology:
		return serve(rt, env, p, TopologyHandler.Topology)
	case message.Gossip:
		h, ok := rt.node.(GossipHandler)
		if !ok {
			rt.logger.Warn("dropping gossip", zap.String("src", env.Src))
			return nil
		}
		// gossip is never answered
		rt.sender.current = nil
		return h.Gossip(contextFor(env, p), rt.sender)
	default:
		panic(errors.AssertionFailedf("no route for %T", p))
	}
}

// serve hands a request to the node if it implements handler H, and answers
// not-supported otherwise.
func serve[H any, T message.Payload](
	rt *Runtime,
	env message.Envelope,
	p T,
	handle func(H, Context[T], Sender) error,
) error {
	h, ok := rt.node.(H)
	if !ok {
		telemetry.ProtocolErrors.WithLabelValues(message.CodeNotSupported.String()).Inc()
		return rt.sender.Reply(message.Error{
			Code: message.CodeNotSupported,
			Text: string(p.Type()) + " is not supported by " + rt.node.Name(),
		})
	}
	return handle(h, contextFor(env, p), rt.sender)
}

func contextFor[T message.Payload](env message.Envelope, p T) Context[T] {
	return Context[T]{CorrelationID: env.Body.MsgID, Source: env.Src, Metadata: p}
}

// initialise sets the node identity. The first init wins; later ones are
// acknowledged without changing anything.
func (rt *Runtime) initialise(env message.Envelope, p message.Init) error {
	if c := rt.sender.cluster; c != nil {
		if c.NodeID != p.NodeID || !slices.Equal(c.NodeIDs, p.NodeIDs) {
			rt.logger.Warn("ignoring init with a different identity",
				zap.String("node_id", p.NodeID),
				zap.Strings("node_ids", p.NodeIDs),
			)
		}
		return rt.sender.Reply(message.InitOk{})
	}
	if p.NodeID == "" {
		return rt.sender.reject(env, message.CodeMalformedRequest, "init without node_id")
	}

	c := &Cluster{NodeID: p.NodeID, NodeIDs: slices.Clone(p.NodeIDs)}
	rt.sender.cluster = c
	rt.logger = rt.logger.With(zap.String("node_id", c.NodeID))
	rt.logger.Info("initialised", zap.Strings("node_ids", c.NodeIDs))

	if err := rt.sender.Reply(message.InitOk{}); err != nil {
		return err
	}
	for _, fn := range rt.onInit {
		fn(Cluster{NodeID: c.NodeID, NodeIDs: slices.Clone(c.NodeIDs)})
	}
	return nil
}
