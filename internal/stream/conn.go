package stream

import (
	"errors"
	"sync"
	"time"
)

// EventWriter is the transport side of a connection. WriteEvent encodes one
// envelope and flushes it to the peer, returning an error if the transport is
// broken or closed.
type EventWriter interface {
	WriteEvent(Envelope) error
}

// CloseReason identifies which terminal path ended a connection.
type CloseReason int

const (
	CloseComplete CloseReason = iota // peer disconnected, or server shutdown
	CloseTimeout                     // idle timer elapsed without traffic
	CloseError                       // a write to the peer failed
)

func (r CloseReason) String() string {
	switch r {
	case CloseComplete:
		return "complete"
	case CloseTimeout:
		return "timeout"
	case CloseError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrConnClosed is returned by Send once the connection has reached a
// terminal state.
var ErrConnClosed = errors.New("stream: connection closed")

// Conn is one subscriber's live outbound connection. It is created by
// Registry.Register and owned by the registry until a terminal transition
// (complete, timeout, or write error) removes it. Exactly one terminal
// transition wins, no matter how many paths fire concurrently.
type Conn struct {
	writer  EventWriter
	idle    time.Duration
	timer   *time.Timer
	done    chan struct{}
	cleanup func(*Conn, CloseReason)

	wmu sync.Mutex // serializes writes to the transport

	mu     sync.Mutex
	closed bool
	reason CloseReason
}

func newConn(w EventWriter, idle time.Duration, cleanup func(*Conn, CloseReason)) *Conn {
	c := &Conn{
		writer:  w,
		idle:    idle,
		done:    make(chan struct{}),
		cleanup: cleanup,
	}
	c.timer = time.AfterFunc(idle, func() { c.terminate(CloseTimeout) })
	return c
}

// Send writes one envelope to the peer. Concurrent senders are serialized so
// frames never interleave; a successful write resets the idle timer. Send does
// not retry and does not terminate the connection on failure: the caller
// decides (the broadcaster fails dead connections after its pass).
func (c *Conn) Send(env Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.isClosed() {
		return ErrConnClosed
	}
	if err := c.writer.WriteEvent(env); err != nil {
		return err
	}

	// terminate waits on wmu, so the connection cannot reach a terminal
	// state between the closed check above and this reset.
	c.timer.Reset(c.idle)
	return nil
}

// Close terminates the connection through the complete path. Idempotent.
func (c *Conn) Close() {
	c.terminate(CloseComplete)
}

// Fail terminates the connection through the error path. Idempotent.
func (c *Conn) Fail() {
	c.terminate(CloseError)
}

// Done is closed once the connection reaches a terminal state.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Reason reports the terminal reason. Meaningful only after Done is closed.
func (c *Conn) Reason() CloseReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// terminate performs the single terminal transition: stop the idle timer,
// close Done, and run the registry-installed cleanup. All later calls are
// no-ops regardless of reason.
//
// The write lock is taken first (same order as Send) and held until Done is
// closed, so once Done is observed no write to the transport is in flight and
// none will start.
func (c *Conn) terminate(reason CloseReason) {
	c.wmu.Lock()
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		c.wmu.Unlock()
		return
	}
	c.closed = true
	c.reason = reason
	c.mu.Unlock()

	c.timer.Stop()
	close(c.done)
	c.wmu.Unlock()

	if c.cleanup != nil {
		c.cleanup(c, reason)
	}
}
