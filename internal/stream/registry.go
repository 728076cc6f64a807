package stream

import (
	"log/slog"
	"sync"
	"time"

	"github.com/commentstream/backend/internal/metrics"
)

// Registry is the concurrent set of live connections. All mutation goes
// through a mutex, but the lock is never held across a network write:
// broadcast and CloseAll operate on a snapshot of the set.
type Registry struct {
	idleTimeout time.Duration

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// NewRegistry creates an empty registry whose connections use the given idle
// timeout.
func NewRegistry(idleTimeout time.Duration) *Registry {
	return &Registry{
		idleTimeout: idleTimeout,
		conns:       make(map[*Conn]struct{}),
	}
}

// Register creates a connection around the given writer, wires its terminal
// cleanup to Unregister, and adds it to the live set. The connection is
// returned before any data has been sent on it.
func (r *Registry) Register(w EventWriter) *Conn {
	c := newConn(w, r.idleTimeout, func(conn *Conn, reason CloseReason) {
		r.Unregister(conn)
		slog.Debug("connection closed", slog.String("reason", reason.String()))
	})

	r.mu.Lock()
	r.conns[c] = struct{}{}
	n := len(r.conns)
	r.mu.Unlock()

	metrics.Connections.Set(float64(n))

	// The idle timer is armed at construction. If a very short timeout fired
	// before the insert above, its cleanup ran against an absent conn; sweep
	// the already-closed conn back out so it cannot linger in the live set.
	if c.isClosed() {
		r.Unregister(c)
	}
	return c
}

// Unregister removes the connection from the live set if present. Removing an
// absent connection is a no-op.
func (r *Registry) Unregister(c *Conn) {
	r.mu.Lock()
	delete(r.conns, c)
	n := len(r.conns)
	r.mu.Unlock()

	metrics.Connections.Set(float64(n))
}

// Size returns the number of live connections.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// snapshot copies the live set under the lock so callers can iterate (and
// block on I/O) without holding it. Connections registered after the snapshot
// is taken are not included.
func (r *Registry) snapshot() []*Conn {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns := make([]*Conn, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}

// CloseAll closes every live connection through its complete path. Used at
// shutdown. Each close unregisters the connection, so the set drains to empty.
func (r *Registry) CloseAll() {
	for _, c := range r.snapshot() {
		c.Close()
	}
}
