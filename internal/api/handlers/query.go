package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/coursemind/coursemind/internal/domain/tool"
)

// Assistant answers course questions within a session.
type Assistant interface {
	Answer(ctx context.Context, query, sessionID string) (answer string, sources []tool.Source, sid string, err error)
}

// QueryHandler serves POST /api/v1/query.
type QueryHandler struct {
	svc Assistant
}

// NewQueryHandler creates a QueryHandler.
func NewQueryHandler(svc Assistant) *QueryHandler {
	return &QueryHandler{svc: svc}
}

type queryRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

type queryResponse struct {
	Answer    string        `json:"answer"`
	Sources   []tool.Source `json:"sources"`
	SessionID string        `json:"session_id"`
}

// Query handles POST /api/v1/query.
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	answer, sources, sid, err := h.svc.Answer(r.Context(), req.Query, req.SessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to answer query")
		return
	}
	if sources == nil {
		sources = []tool.Source{} // marshal as [] rather than null
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer:    answer,
		Sources:   sources,
		SessionID: sid,
	})
}
