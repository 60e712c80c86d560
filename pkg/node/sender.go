package node

import (
	"math"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/message"
)

// Sender is the capability handed to handlers for answering the current
// envelope and for unsolicited sends.
type Sender interface {
	NodeID() string
	NodeIDs() []string
	// Reply answers the envelope currently being dispatched.
	Reply(p message.Payload) error
	// SendTo sends p to dest without reply correlation.
	SendTo(dest string, p message.Payload) error
}

type request struct {
	src   string
	msgID *uint32
}

type sender struct {
	out     Outbox
	cluster *Cluster
	// last msg_id handed out; the next send uses last+1.
	last    uint32
	current *request
}

func (s *sender) NodeID() string {
	return s.identity().NodeID
}

func (s *sender) NodeIDs() []string {
	return slices.Clone(s.identity().NodeIDs)
}

func (s *sender) Reply(p message.Payload) error {
	if s.current == nil {
		panic(errors.AssertionFailedf("reply %s outside of dispatch", p.Type()))
	}
	return s.emit(s.current.src, p, s.current.msgID)
}

func (s *sender) SendTo(dest string, p message.Payload) error {
	return s.emit(dest, p, nil)
}

func (s *sender) emit(dest string, p message.Payload, inReplyTo *uint32) error {
	c := s.identity()
	env := message.Envelope{
		Src:  c.NodeID,
		Dest: dest,
		Body: message.Body{Payload: p, MsgID: message.ID(s.nextID()), InReplyTo: inReplyTo},
	}
	return s.write(env)
}

// reject answers env with an error body. The source is left empty and no
// msg_id is allocated: the sender of a rejection does not own an id space.
func (s *sender) reject(env message.Envelope, code message.ErrorCode, text string) error {
	telemetry.ProtocolErrors.WithLabelValues(code.String()).Inc()
	return s.write(message.Envelope{
		Dest: env.Src,
		Body: message.Body{
			Payload:   message.Error{Code: code, Text: text},
			InReplyTo: env.Body.MsgID,
		},
	})
}

func (s *sender) write(env message.Envelope) error {
	if err := s.out.Send(env); err != nil {
		return errors.Wrapf(err, "send %s to %s", env.Body.Payload.Type(), env.Dest)
	}
	telemetry.MessagesTotal.WithLabelValues("out", string(env.Body.Payload.Type())).Inc()
	return nil
}

func (s *sender) identity() *Cluster {
	if s.cluster == nil {
		panic(errors.AssertionFailedf("send before init: node has no identity"))
	}
	return s.cluster
}

func (s *sender) nextID() uint32 {
	if s.last == math.MaxUint32 {
		panic(errors.AssertionFailedf("message id space exhausted"))
	}
	s.last++
	return s.last
}
