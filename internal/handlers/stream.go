package handlers

import (
	"net/http"

	"github.com/commentstream/backend/internal/config"
	"github.com/commentstream/backend/internal/logging"
	"github.com/commentstream/backend/internal/store"
	"github.com/commentstream/backend/internal/stream"
)

// StreamHandler serves the Server-Sent Events endpoint that live viewers
// subscribe to.
type StreamHandler struct {
	cfg      *config.Config
	registry *stream.Registry
	comments *store.CommentStore
}

// NewStreamHandler creates a StreamHandler backed by the given registry and
// comment store.
func NewStreamHandler(cfg *config.Config, registry *stream.Registry, comments *store.CommentStore) *StreamHandler {
	return &StreamHandler{cfg: cfg, registry: registry, comments: comments}
}

// httpEventWriter adapts an http.ResponseWriter plus its Flusher to
// stream.EventWriter, so each envelope reaches the peer immediately.
type httpEventWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

func (h *httpEventWriter) WriteEvent(env stream.Envelope) error {
	if err := env.Encode(h.w); err != nil {
		return err
	}
	h.flusher.Flush()
	return nil
}

// Subscribe opens an SSE connection. The new connection immediately receives
// a "connected" event and, when history exists, a single "comment-history"
// event with the most recent comments, newest first. After that it only sees
// what the broadcaster fans out: "comment" events and periodic pings. A
// failure during the initial sends terminates the connection through its
// error path instead of leaving it half-initialized.
func (h *StreamHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	conn := h.registry.Register(&httpEventWriter{w: w, flusher: flusher})

	if err := conn.Send(stream.Envelope{Event: "connected", Data: "ok"}); err != nil {
		logging.LogErrorWithStatus(r.Context(), http.StatusInternalServerError,
			"failed to initialize subscription", logging.WrapError(err, "send connected"))
		conn.Fail()
		return
	}

	if history := h.comments.Recent(h.cfg.HistoryLimit); len(history) > 0 {
		if err := conn.Send(stream.Envelope{Event: "comment-history", Data: history}); err != nil {
			logging.LogErrorWithStatus(r.Context(), http.StatusInternalServerError,
				"failed to initialize subscription", logging.WrapError(err, "send history"))
			conn.Fail()
			return
		}
	}

	// Block until the peer goes away or the connection reaches a terminal
	// state (idle timeout, write error, or server shutdown).
	select {
	case <-r.Context().Done():
		conn.Close()
	case <-conn.Done():
	}
}
