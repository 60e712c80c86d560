// Package uniqueid implements a node that hands out cluster-unique ids
// without coordinating with its peers. Ids are the node id joined to a
// per-node counter, so uniqueness follows from node ids being unique.
package uniqueid

import (
	"strconv"

	"github.com/ryandielhenn/dist-sys/pkg/message"
	"github.com/ryandielhenn/dist-sys/pkg/node"
)

type Node struct {
	next uint64
}

func New() *Node { return &Node{} }

func (*Node) Name() string { return "unique-ids" }

func (n *Node) Generate(_ node.Context[message.Generate], s node.Sender) error {
	n.next++
	return s.Reply(message.GenerateOk{ID: s.NodeID() + "-" + strconv.FormatUint(n.next, 10)})
}
