package stream

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestBroadcaster_DeliversToAll(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	writers := []*recordWriter{{}, {}, {}}
	for _, w := range writers {
		r.Register(w)
	}

	b.Broadcast("comment", map[string]string{"id": "c1"})

	for i, w := range writers {
		if got := len(w.Frames()); got != 1 {
			t.Errorf("writer %d received %d frames, want 1", i, got)
		}
	}
}

func TestBroadcaster_FailureIsolation(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	w1 := &recordWriter{}
	w3 := &recordWriter{}
	r.Register(w1)
	dead := r.Register(failWriter{})
	r.Register(w3)

	b.Broadcast("comment", map[string]string{"id": "c1"})

	if got := len(w1.Frames()); got != 1 {
		t.Errorf("healthy writer 1 received %d frames, want 1", got)
	}
	if got := len(w3.Frames()); got != 1 {
		t.Errorf("healthy writer 3 received %d frames, want 1", got)
	}
	if got := r.Size(); got != 2 {
		t.Errorf("Size() after broadcast = %d, want 2", got)
	}

	select {
	case <-dead.Done():
		if got := dead.Reason(); got != CloseError {
			t.Errorf("dead conn Reason() = %v, want %v", got, CloseError)
		}
	default:
		t.Error("failing connection was not terminated")
	}
}

func TestBroadcaster_EmptyRegistryIsNoOp(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	// Must complete without error or side effects.
	b.Broadcast("comment", map[string]string{"id": "c1"})

	if got := r.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}

// registeringWriter registers a fresh connection in the middle of a broadcast
// pass, from inside WriteEvent.
type registeringWriter struct {
	recordWriter
	registry *Registry
	late     *recordWriter
	lateConn *Conn
}

func (w *registeringWriter) WriteEvent(env Envelope) error {
	if w.lateConn == nil {
		w.late = &recordWriter{}
		w.lateConn = w.registry.Register(w.late)
	}
	return w.recordWriter.WriteEvent(env)
}

func TestBroadcaster_SnapshotExcludesMidBroadcastJoins(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	w := &registeringWriter{registry: r}
	r.Register(w)

	b.Broadcast("comment", map[string]string{"id": "c1"})

	if got := len(w.Frames()); got != 1 {
		t.Fatalf("original writer received %d frames, want 1", got)
	}
	if got := len(w.late.Frames()); got != 0 {
		t.Errorf("late joiner received %d frames from in-flight broadcast, want 0", got)
	}

	// The late joiner participates in subsequent broadcasts.
	b.Broadcast("comment", map[string]string{"id": "c2"})
	if got := len(w.late.Frames()); got != 1 {
		t.Errorf("late joiner received %d frames from next broadcast, want 1", got)
	}
}

func TestBroadcaster_SequentialOrderingPerConnection(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	w := &recordWriter{}
	r.Register(w)

	b.Broadcast("comment", map[string]string{"id": "c1"})
	b.Broadcast("comment", map[string]string{"id": "c2"})

	frames := w.Frames()
	if len(frames) != 2 {
		t.Fatalf("received %d frames, want 2", len(frames))
	}
	if !strings.Contains(frames[0], `"c1"`) || !strings.Contains(frames[1], `"c2"`) {
		t.Errorf("frames out of order: %q", frames)
	}
}

func TestBroadcaster_CommentWireFormat(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	w := &recordWriter{}
	r.Register(w)

	b.Broadcast("comment", map[string]string{
		"id":       "c1",
		"username": "alice",
		"message":  "hi",
	})

	frames := w.Frames()
	if len(frames) != 1 {
		t.Fatalf("received %d frames, want 1", len(frames))
	}

	frame := frames[0]
	lines := strings.Split(strings.TrimSuffix(frame, "\n\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("frame has %d lines, want 2: %q", len(lines), frame)
	}
	if lines[0] != "event: comment" {
		t.Errorf("event line = %q, want %q", lines[0], "event: comment")
	}
	if !strings.HasPrefix(lines[1], "data: ") {
		t.Fatalf("data line = %q, want data: prefix", lines[1])
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[1], "data: ")), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	want := map[string]string{"id": "c1", "username": "alice", "message": "hi"}
	for k, v := range want {
		if payload[k] != v {
			t.Errorf("payload[%q] = %q, want %q", k, payload[k], v)
		}
	}
}

func TestBroadcaster_AfterCloseAllIsNoOp(t *testing.T) {
	r := NewRegistry(time.Minute)
	b := NewBroadcaster(r)

	w := &recordWriter{}
	r.Register(w)
	r.CloseAll()

	b.Broadcast("comment", map[string]string{"id": "c1"})

	if got := len(w.Frames()); got != 0 {
		t.Errorf("closed connection received %d frames, want 0", got)
	}
	if got := r.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}
