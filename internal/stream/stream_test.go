package stream

import (
	"bytes"
	"errors"
	"sync"
)

// recordWriter collects encoded frames, one per WriteEvent call.
type recordWriter struct {
	mu     sync.Mutex
	frames []string
}

func (w *recordWriter) WriteEvent(env Envelope) error {
	var buf bytes.Buffer
	if err := env.Encode(&buf); err != nil {
		return err
	}
	w.mu.Lock()
	w.frames = append(w.frames, buf.String())
	w.mu.Unlock()
	return nil
}

func (w *recordWriter) Frames() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.frames...)
}

// failWriter fails every write, like a broken pipe.
type failWriter struct{}

func (failWriter) WriteEvent(Envelope) error {
	return errors.New("broken pipe")
}
