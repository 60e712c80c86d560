// Package node runs a single protocol node: it reads envelopes one at a time,
// guards them against the node's identity, handles init itself and routes
// every other request to the concrete node implementation.
package node

import (
	"slices"

	"go.uber.org/zap"
)

// Cluster is the identity assigned by the first init message.
type Cluster struct {
	NodeID  string
	NodeIDs []string
}

// Node is implemented by every concrete node. Request handling is opted
// into per message kind by also implementing the handler interfaces in
// contract.go.
type Node interface {
	Name() string
}

type Option func(*Runtime)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(rt *Runtime) { rt.logger = l }
}

// WithInitHook registers fn to run once the node identity is first set.
func WithInitHook(fn func(Cluster)) Option {
	return func(rt *Runtime) { rt.onInit = append(rt.onInit, fn) }
}

type Runtime struct {
	node   Node
	sender *sender
	logger *zap.Logger
	onInit []func(Cluster)
}

func New(n Node, out Outbox, opts ...Option) *Runtime {
	rt := &Runtime{node: n, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(rt)
	}
	rt.logger = rt.logger.With(zap.String("node", n.Name()))
	rt.sender = &sender{out: out}
	return rt
}

// Cluster returns the node identity, if init has been received.
func (rt *Runtime) Cluster() (Cluster, bool) {
	if rt.sender.cluster == nil {
		return Cluster{}, false
	}
	c := *rt.sender.cluster
	c.NodeIDs = slices.Clone(c.NodeIDs)
	return c, true
}
