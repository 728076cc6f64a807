package stream

import (
	"sync"
	"testing"
	"time"
)

func TestRegistry_RegisterAndSize(t *testing.T) {
	r := NewRegistry(time.Minute)

	c1 := r.Register(&recordWriter{})
	c2 := r.Register(&recordWriter{})

	if got := r.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}

	c1.Close()
	c2.Close()

	if got := r.Size(); got != 0 {
		t.Errorf("Size() after closes = %d, want 0", got)
	}
}

func TestRegistry_UnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(time.Minute)
	c := r.Register(&recordWriter{})
	other := NewRegistry(time.Minute).Register(&recordWriter{})

	r.Unregister(c)
	if got := r.Size(); got != 0 {
		t.Fatalf("Size() = %d, want 0", got)
	}

	// Removing again, or removing a connection that was never registered
	// here, must be a no-op.
	r.Unregister(c)
	r.Unregister(other)
	if got := r.Size(); got != 0 {
		t.Errorf("Size() after repeated unregister = %d, want 0", got)
	}
}

func TestRegistry_TerminalTransitionUnregisters(t *testing.T) {
	r := NewRegistry(time.Minute)

	c := r.Register(&recordWriter{})
	c.Fail()

	if got := r.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0 after error path", got)
	}
}

func TestRegistry_IdleTimeoutUnregisters(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)

	c := r.Register(&recordWriter{})

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("idle timeout did not fire")
	}

	if got := r.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0 after timeout", got)
	}
	if got := c.Reason(); got != CloseTimeout {
		t.Errorf("Reason() = %v, want %v", got, CloseTimeout)
	}
}

func TestRegistry_ImmediateTimeoutNeverStrands(t *testing.T) {
	// With a timeout this short the idle timer can fire between connection
	// construction and the registry insert. The closed conn must still be
	// removed from the live set.
	r := NewRegistry(time.Nanosecond)

	for i := 0; i < 100; i++ {
		c := r.Register(&recordWriter{})
		select {
		case <-c.Done():
		case <-time.After(time.Second):
			t.Fatal("idle timeout did not fire")
		}
	}

	deadline := time.After(time.Second)
	for r.Size() != 0 {
		select {
		case <-deadline:
			t.Fatalf("Size() = %d, want 0 after all timeouts", r.Size())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRegistry_CloseAll(t *testing.T) {
	r := NewRegistry(time.Minute)

	conns := make([]*Conn, 3)
	for i := range conns {
		conns[i] = r.Register(&recordWriter{})
	}

	r.CloseAll()

	if got := r.Size(); got != 0 {
		t.Errorf("Size() after CloseAll = %d, want 0", got)
	}
	for i, c := range conns {
		select {
		case <-c.Done():
			if got := c.Reason(); got != CloseComplete {
				t.Errorf("conn %d Reason() = %v, want %v", i, got, CloseComplete)
			}
		default:
			t.Errorf("conn %d not terminated after CloseAll", i)
		}
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	r := NewRegistry(time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := r.Register(&recordWriter{})
			if err := c.Send(Envelope{Event: "comment", Data: "hi"}); err != nil {
				t.Errorf("Send() error = %v", err)
			}
			c.Close()
		}()
	}

	wg.Wait()

	if got := r.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
}
