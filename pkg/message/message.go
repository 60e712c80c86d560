// Package message defines the wire model shared by every node: an Envelope
// addressed from one node to another, and a Body carrying one Payload kind
// together with the sender's message id and an optional reply correlation.
//
// On the wire each envelope is a single JSON object:
//
//	{"src":"c1","dest":"n1","body":{"type":"echo","echo":"hi","msg_id":1}}
//
// Payload fields are flattened into the body next to "type", "msg_id" and
// "in_reply_to".
package message

import "encoding/json"

// Type is the "type" tag of a body.
type Type string

const (
	TypeInit        Type = "init"
	TypeInitOk      Type = "init_ok"
	TypeError       Type = "error"
	TypeEcho        Type = "echo"
	TypeEchoOk      Type = "echo_ok"
	TypeGenerate    Type = "generate"
	TypeGenerateOk  Type = "generate_ok"
	TypeBroadcast   Type = "broadcast"
	TypeBroadcastOk Type = "broadcast_ok"
	TypeRead        Type = "read"
	TypeReadOk      Type = "read_ok"
	TypeTopology    Type = "topology"
	TypeTopologyOk  Type = "topology_ok"
	TypeGossip      Type = "gossip"
)

// Envelope is one transmitted unit.
type Envelope struct {
	Src  string `json:"src"`
	Dest string `json:"dest"`
	Body Body   `json:"body"`
}

// Body wraps a payload with its sequencing metadata. MsgID is unique only
// within the sender's id space. InReplyTo is nil for anything that is not a
// reply.
type Body struct {
	Payload   Payload
	MsgID     *uint32
	InReplyTo *uint32
}

// ID returns a pointer to id, for populating Body fields.
func ID(id uint32) *uint32 { return &id }

// Payload is the closed set of message kinds.
type Payload interface {
	Type() Type
	payload()
}

type Init struct {
	NodeID  string   `json:"node_id"`
	NodeIDs []string `json:"node_ids"`
}

type InitOk struct{}

type Error struct {
	Code ErrorCode `json:"code"`
	Text string    `json:"text,omitempty"`
}

// Echo carries an opaque value that is returned untouched.
type Echo struct {
	Echo json.RawMessage `json:"echo"`
}

type EchoOk struct {
	Echo json.RawMessage `json:"echo"`
}

type Generate struct{}

type GenerateOk struct {
	ID string `json:"id"`
}

type Broadcast struct {
	Message int64 `json:"message"`
}

type BroadcastOk struct{}

type Read struct{}

type ReadOk struct {
	Messages []int64 `json:"messages"`
}

// Topology maps every node to its neighbours.
type Topology struct {
	Topology map[string][]string `json:"topology"`
}

type TopologyOk struct{}

// Gossip carries a value snapshot and the set of nodes already covered by the
// wave it belongs to. It is never acknowledged.
type Gossip struct {
	Values   []int64  `json:"values"`
	Informed []string `json:"informed"`
}

func (Init) Type() Type        { return TypeInit }
func (InitOk) Type() Type      { return TypeInitOk }
func (Error) Type() Type       { return TypeError }
func (Echo) Type() Type        { return TypeEcho }
func (EchoOk) Type() Type      { return TypeEchoOk }
func (Generate) Type() Type    { return TypeGenerate }
func (GenerateOk) Type() Type  { return TypeGenerateOk }
func (Broadcast) Type() Type   { return TypeBroadcast }
func (BroadcastOk) Type() Type { return TypeBroadcastOk }
func (Read) Type() Type        { return TypeRead }
func (ReadOk) Type() Type      { return TypeReadOk }
func (Topology) Type() Type    { return TypeTopology }
func (TopologyOk) Type() Type  { return TypeTopologyOk }
func (Gossip) Type() Type      { return TypeGossip }

func (Init) payload()        {}
func (InitOk) payload()      {}
func (Error) payload()       {}
func (Echo) payload()        {}
func (EchoOk) payload()      {}
func (Generate) payload()    {}
func (GenerateOk) payload()  {}
func (Broadcast) payload()   {}
func (BroadcastOk) payload() {}
func (Read) payload()        {}
func (ReadOk) payload()      {}
func (Topology) payload()    {}
func (TopologyOk) payload()  {}
func (Gossip) payload()      {}

// Reply reports whether t is an acknowledgement kind. Nodes in this
// repository never issue the requests that provoke these.
func (t Type) Reply() bool {
	switch t {
	case TypeInitOk, TypeEchoOk, TypeGenerateOk, TypeBroadcastOk,
		TypeReadOk, TypeTopologyOk, TypeError:
		return true
	}
	return false
}
