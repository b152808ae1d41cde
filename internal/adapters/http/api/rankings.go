package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// RankingsDependencies defines the interface for leaderboard reads.
type RankingsDependencies interface {
	Rankings(ctx context.Context) (ranking.RankingSet, error)
	View(ctx context.Context, name string, limit int) (types.ViewResult, error)
}

// RankingsHandler serves the leaderboards.
type RankingsHandler struct {
	deps     RankingsDependencies
	maxLimit int
}

// NewRankingsHandler creates a new rankings handler.
func NewRankingsHandler(deps RankingsDependencies, maxLimit int) *RankingsHandler {
	return &RankingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetRankings handles GET /rankings.
func (h *RankingsHandler) HandleGetRankings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rankings"
	set, err := h.deps.Rankings(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, set)
}

// HandleGetView handles GET /rankings/{view}?limit=N. Without limit the
// whole view is returned.
func (h *RankingsHandler) HandleGetView(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_view"
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeFailure(w, NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeFailure(w, NewKind(op, ErrLimitExceeded))
			return
		}
		limit = n
	}
	view, err := h.deps.View(r.Context(), r.PathValue("view"), limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
