package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/commentstream/backend/internal/metrics"
)

// Heartbeat is the payload of a ping envelope.
type Heartbeat struct {
	Timestamp   time.Time `json:"timestamp"`
	Connections int       `json:"connections"`
}

// KeepAlive periodically broadcasts ping envelopes so idle connections stay
// open through proxies and dead peers are detected before the idle timeout
// fires. The interval must be shorter than the connection idle timeout;
// config validation enforces the margin.
type KeepAlive struct {
	registry    *Registry
	broadcaster *Broadcaster
	interval    time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// NewKeepAlive creates a stopped scheduler. Call Start to begin ticking.
func NewKeepAlive(registry *Registry, broadcaster *Broadcaster, interval time.Duration) *KeepAlive {
	return &KeepAlive{
		registry:    registry,
		broadcaster: broadcaster,
		interval:    interval,
		stop:        make(chan struct{}),
	}
}

// Start launches the ticker goroutine. It runs until Stop is called.
func (k *KeepAlive) Start() {
	slog.Info("keep-alive scheduler started", slog.Duration("interval", k.interval))
	go k.run()
}

// Stop halts the scheduler. Idempotent.
func (k *KeepAlive) Stop() {
	k.stopOnce.Do(func() { close(k.stop) })
}

func (k *KeepAlive) run() {
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()

	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.tick()
		}
	}
}

// tick broadcasts one ping, unless nobody is connected.
func (k *KeepAlive) tick() {
	n := k.registry.Size()
	if n == 0 {
		return
	}

	k.broadcaster.Broadcast("ping", Heartbeat{
		Timestamp:   time.Now().UTC(),
		Connections: n,
	})
	metrics.Heartbeats.Inc()
}
