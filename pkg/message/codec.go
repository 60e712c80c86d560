package message

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMalformed is returned for bodies that are not JSON objects or carry
	// no type tag.
	ErrMalformed = errors.New("malformed message body")
	// ErrUnknownType is returned for bodies whose type tag names no payload.
	ErrUnknownType = errors.New("unknown message type")
)

var decoders = map[Type]func([]byte) (Payload, error){
	TypeInit:        decode[Init],
	TypeInitOk:      decode[InitOk],
	TypeError:       decode[Error],
	TypeEcho:        decode[Echo],
	TypeEchoOk:      decode[EchoOk],
	TypeGenerate:    decode[Generate],
	TypeGenerateOk:  decode[GenerateOk],
	TypeBroadcast:   decode[Broadcast],
	TypeBroadcastOk: decode[BroadcastOk],
	TypeRead:        decode[Read],
	TypeReadOk:      decode[ReadOk],
	TypeTopology:    decode[Topology],
	TypeTopologyOk:  decode[TopologyOk],
	TypeGossip:      decode[Gossip],
}

func decode[T Payload](data []byte) (Payload, error) {
	var p T
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return p, nil
}

type header struct {
	Type      Type    `json:"type"`
	MsgID     *uint32 `json:"msg_id"`
	InReplyTo *uint32 `json:"in_reply_to"`
}

// MarshalJSON flattens the payload fields into the body object.
func (b Body) MarshalJSON() ([]byte, error) {
	if b.Payload == nil {
		return nil, errors.Wrap(ErrMalformed, "body has no payload")
	}
	raw, err := json.Marshal(b.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s payload", b.Payload.Type())
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrapf(err, "flatten %s payload", b.Payload.Type())
	}
	if fields["type"], err = json.Marshal(b.Payload.Type()); err != nil {
		return nil, err
	}
	if b.MsgID != nil {
		fields["msg_id"], _ = json.Marshal(*b.MsgID)
	}
	if b.InReplyTo != nil {
		fields["in_reply_to"], _ = json.Marshal(*b.InReplyTo)
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads the type tag and decodes the matching payload.
func (b *Body) UnmarshalJSON(data []byte) error {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return errors.Mark(errors.Wrap(err, "decode body header"), ErrMalformed)
	}
	if h.Type == "" {
		return errors.Wrap(ErrMalformed, "missing type")
	}
	dec, ok := decoders[h.Type]
	if !ok {
		return errors.Wrapf(ErrUnknownType, "%q", string(h.Type))
	}
	p, err := dec(data)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "decode %s payload", h.Type), ErrMalformed)
	}
	*b = Body{Payload: p, MsgID: h.MsgID, InReplyTo: h.InReplyTo}
	return nil
}

// Decode parses a single envelope from one line of input.
func Decode(line []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		if errors.Is(err, ErrUnknownType) {
			return Envelope{}, err
		}
		return Envelope{}, errors.Mark(err, ErrMalformed)
	}
	if env.Body.Payload == nil {
		return Envelope{}, errors.Wrap(ErrMalformed, "missing body")
	}
	return env, nil
}
