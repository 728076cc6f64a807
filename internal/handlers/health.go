package handlers

import (
	"net/http"

	"github.com/commentstream/backend/internal/models"
	"github.com/commentstream/backend/internal/store"
	"github.com/commentstream/backend/internal/stream"
)

type HealthHandler struct {
	registry *stream.Registry
	comments *store.CommentStore
}

func NewHealthHandler(registry *stream.Registry, comments *store.CommentStore) *HealthHandler {
	return &HealthHandler{registry: registry, comments: comments}
}

// Check reports service liveness plus the current live-connection and stored
// comment counts.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:      "ok",
		Connections: h.registry.Size(),
		Comments:    h.comments.Count(),
	})
}
