package node

import (
	"encoding/json"
	"io"

	"github.com/ryandielhenn/dist-sys/pkg/message"
)

// Outbox is the outbound channel. Send must deliver envelopes in call order.
type Outbox interface {
	Send(env message.Envelope) error
}

// Encoder writes each envelope as one line of JSON.
type Encoder struct {
	enc *json.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Encoder{enc: enc}
}

func (e *Encoder) Send(env message.Envelope) error {
	return e.enc.Encode(env)
}

// OutboxFunc adapts a function to an Outbox.
type OutboxFunc func(env message.Envelope) error

func (f OutboxFunc) Send(env message.Envelope) error { return f(env) }
