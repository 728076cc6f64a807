// Package stream implements the live-viewer core of the comment service: a
// registry of open SSE connections, a broadcaster that fans envelopes out to
// all of them with per-connection failure isolation, and a keep-alive
// scheduler that pings idle connections so proxies keep them open.
package stream

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Envelope is the unit of broadcast: an optional event name plus a payload.
// String payloads are written as plain text; everything else is marshaled to
// single-line JSON.
type Envelope struct {
	Event string
	Data  any
}

// Encode writes the envelope in SSE wire format: an optional "event:" line,
// one or more "data:" lines, and a terminating blank line. The whole frame is
// written in a single call so concurrent frames never interleave on the wire.
func (e Envelope) Encode(w io.Writer) error {
	var b strings.Builder

	if e.Event != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Event)
	}

	switch data := e.Data.(type) {
	case string:
		for _, line := range strings.Split(data, "\n") {
			fmt.Fprintf(&b, "data: %s\n", line)
		}
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return err
		}
		fmt.Fprintf(&b, "data: %s\n", encoded)
	}

	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
