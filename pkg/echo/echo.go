// Package echo implements a node that answers every echo with the same value.
package echo

import (
	"github.com/ryandielhenn/dist-sys/pkg/message"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

type Node struct{}

func New() *Node { return &Node{} }

func (*Node) Name() string { return "echo" }

func (*Node) Echo(ctx node.Context[message.Echo], s node.Sender) error {
	return s.Reply(message.EchoOk{Echo: ctx.Metadata.Echo})
}
