package stream

import (
	"log/slog"

	"github.com/commentstream/backend/internal/metrics"
)

// Broadcaster fans envelopes out to every live connection. One connection's
// failure never affects delivery to the rest: failed connections are
// collected during the pass and removed afterwards.
type Broadcaster struct {
	registry *Registry
}

// NewBroadcaster creates a Broadcaster over the given registry.
func NewBroadcaster(registry *Registry) *Broadcaster {
	return &Broadcaster{registry: registry}
}

// Broadcast delivers one envelope to every connection registered at the time
// of the call. Connections registered mid-broadcast join only subsequent
// broadcasts. Broadcast never reports an error to the producer: delivery
// failures terminate the affected connection and surface via logs and
// metrics only. An empty registry is a no-op.
func (b *Broadcaster) Broadcast(event string, payload any) {
	conns := b.registry.snapshot()
	if len(conns) == 0 {
		return
	}

	env := Envelope{Event: event, Data: payload}

	var dead []*Conn
	for _, c := range conns {
		if err := c.Send(env); err != nil {
			dead = append(dead, c)
			slog.Debug("dropping dead connection",
				slog.String("event", event),
				slog.Any("error", err))
		}
	}

	for _, c := range dead {
		c.Fail()
	}

	metrics.Broadcasts.WithLabelValues(event).Inc()
	if len(dead) > 0 {
		metrics.DeliveryFailures.Add(float64(len(dead)))
	}
}
