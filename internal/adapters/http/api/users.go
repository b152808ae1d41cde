package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// UsersDependencies defines the interface for per-user reads.
type UsersDependencies interface {
	UserScore(ctx context.Context, userID string) (types.UserStanding, error)
	History(ctx context.Context, userID string) ([]scoring.HistoryEntry, error)
}

// UsersHandler serves a single user's score and history.
type UsersHandler struct {
	deps UsersDependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UsersDependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleGetScore handles GET /users/{id}/score.
func (h *UsersHandler) HandleGetScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user_score"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	standing, err := h.deps.UserScore(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, standing)
}

// HandleGetHistory handles GET /users/{id}/history.
func (h *UsersHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_user_history"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	history, err := h.deps.History(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	if history == nil {
		history = []scoring.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}
