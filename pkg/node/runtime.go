package node

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ryandielhenn/dist-sys/internal/telemetry"
	"github.com/ryandielhenn/dist-sys/pkg/message"
)

// MaxLineSize bounds a single inbound envelope.
const MaxLineSize = 16 << 20

// Run reads newline-delimited envelopes from r and dispatches them in order
// until r is exhausted. Blank lines are skipped. A line that cannot be
// decoded stops the loop with an error.
func (rt *Runtime) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), MaxLineSize)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		env, err := message.Decode(raw)
		if err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
		if err := rt.Dispatch(env); err != nil {
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return errors.Wrap(sc.Err(), "read input")
}

// Dispatch handles a single envelope and writes everything it provokes
// before returning.
func (rt *Runtime) Dispatch(env message.Envelope) error {
	typ := env.Body.Payload.Type()
	start := time.Now()
	telemetry.MessagesTotal.WithLabelValues("in", string(typ)).Inc()
	defer func() {
		telemetry.DispatchDuration.WithLabelValues(string(typ)).Observe(time.Since(start).Seconds())
	}()

	rt.logger.Debug("dispatch",
		zap.String("src", env.Src),
		zap.String("dest", env.Dest),
		zap.String("type", string(typ)),
	)

	if c := rt.sender.cluster; c != nil && env.Dest != c.NodeID {
		rt.logger.Warn("envelope for another node",
			zap.String("src", env.Src),
			zap.String("dest", env.Dest),
			zap.String("self", c.NodeID),
		)
		return rt.sender.reject(env, message.CodeWrongNode, "message addressed to "+env.Dest+", this is "+c.NodeID)
	}
	if rt.sender.cluster == nil && typ != message.TypeInit {
		rt.logger.Warn("request before init", zap.String("src", env.Src), zap.String("type", string(typ)))
		return rt.sender.reject(env, message.CodeUninitialised, "node has not received init")
	}

	rt.sender.current = &request{src: env.Src, msgID: env.Body.MsgID}
	defer func() { rt.sender.current = nil }()
	return rt.route(env)
}
