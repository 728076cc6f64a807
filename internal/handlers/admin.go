package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/commentstream/backend/internal/config"
	"github.com/commentstream/backend/internal/crypto"
	"github.com/commentstream/backend/internal/logging"
	"github.com/commentstream/backend/internal/models"
	"github.com/commentstream/backend/internal/services"
	"github.com/commentstream/backend/internal/store"
)

type AdminHandler struct {
	cfg      *config.Config
	auth     *services.AuthService
	comments *store.CommentStore
}

func NewAdminHandler(cfg *config.Config, auth *services.AuthService, comments *store.CommentStore) *AdminHandler {
	return &AdminHandler{cfg: cfg, auth: auth, comments: comments}
}

// VerifyPassword checks the client-provided hash of the admin portal password
// against the configured password, hashed with the current UTC day as salt.
// On success it issues an admin token for the moderation endpoints.
func (h *AdminHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expectedHash, err := crypto.HashDaily(h.cfg.AdminPortalPassword)
	if err != nil {
		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "verification failed", err)
		return
	}

	if req.PasswordHash != expectedHash {
		logging.LogSecurityEvent(r.Context(), logging.SecurityEventBadAdminPassword, "admin password verification failed")
		writeJSON(w, http.StatusOK, models.VerifyAdminResponse{Valid: false})
		return
	}

	token, err := h.auth.GenerateToken(services.RoleAdmin)
	if err != nil {
		writeErrorWithCause(r.Context(), w, http.StatusInternalServerError, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, models.VerifyAdminResponse{Valid: true, Token: token})
}

// ClearComments empties the comment store. Admin only.
func (h *AdminHandler) ClearComments(w http.ResponseWriter, r *http.Request) {
	cleared := h.comments.Count()
	h.comments.Clear()

	writeJSON(w, http.StatusOK, models.ClearCommentsResponse{Cleared: cleared})
}
