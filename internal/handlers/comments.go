package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/commentstream/backend/internal/config"
	"github.com/commentstream/backend/internal/metrics"
	"github.com/commentstream/backend/internal/models"
	"github.com/commentstream/backend/internal/services"
	"github.com/commentstream/backend/internal/store"
	"github.com/commentstream/backend/internal/stream"
)

type CommentHandler struct {
	cfg         *config.Config
	comments    *store.CommentStore
	broadcaster *stream.Broadcaster
	guestNames  *services.GuestNameService
}

func NewCommentHandler(cfg *config.Config, comments *store.CommentStore, broadcaster *stream.Broadcaster, guestNames *services.GuestNameService) *CommentHandler {
	return &CommentHandler{cfg: cfg, comments: comments, broadcaster: broadcaster, guestNames: guestNames}
}

// List returns recent comments, newest first. The limit query parameter is
// capped at the configured history window.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		if n < limit {
			limit = n
		}
	}

	comments := h.comments.Recent(limit)
	if comments == nil {
		comments = []store.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Create validates and persists a new comment, then broadcasts it to every
// live viewer. Broadcasting is fire-and-forget: a dead viewer connection
// never fails the post.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	message := strings.TrimSpace(req.Message)

	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if utf8.RuneCountInString(message) > h.cfg.MaxMessageLen {
		writeError(w, http.StatusBadRequest, "message too long")
		return
	}
	if utf8.RuneCountInString(username) > h.cfg.MaxUsernameLen {
		writeError(w, http.StatusBadRequest, "username too long")
		return
	}
	if username == "" {
		username = h.guestNames.Generate()
	}

	comment := h.comments.Create(username, message)
	h.broadcaster.Broadcast("comment", comment)
	metrics.CommentsCreated.Inc()

	writeJSON(w, http.StatusCreated, comment)
}
