package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SessionClearer deletes a conversation session.
type SessionClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

// SessionHandler serves DELETE /api/v1/sessions/{id}.
type SessionHandler struct {
	sessions SessionClearer
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(sessions SessionClearer) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Delete handles DELETE /api/v1/sessions/{id}.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}
	if err := h.sessions.Clear(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
