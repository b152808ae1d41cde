// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
)

// DefaultMaxLimit bounds ?limit= when the server is built without one.
const DefaultMaxLimit = 100

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Rankings(ctx context.Context) (ranking.RankingSet, error)
	View(ctx context.Context, name string, limit int) (types.ViewResult, error)
	UserScore(ctx context.Context, userID string) (types.UserStanding, error)
	History(ctx context.Context, userID string) ([]scoring.HistoryEntry, error)
	Policy(ctx context.Context) (types.PolicyInfo, error)
	Refresh(ctx context.Context) (types.RefreshSummary, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	rankingsHandler *RankingsHandler
	usersHandler    *UsersHandler
	policyHandler   *PolicyHandler
	refreshHandler  *RefreshHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// ?limit= parameter of ranking views; values below 1 use DefaultMaxLimit.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		rankingsHandler: NewRankingsHandler(deps, maxLimit),
		usersHandler:    NewUsersHandler(deps),
		policyHandler:   NewPolicyHandler(deps),
		refreshHandler:  NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /rankings", MetricsMiddleware(s.rankingsHandler.HandleGetRankings, "rankings"))
	mux.HandleFunc("GET /rankings/{view}", MetricsMiddleware(s.rankingsHandler.HandleGetView, "rankings_view"))
	mux.HandleFunc("GET /users/{id}/score", MetricsMiddleware(s.usersHandler.HandleGetScore, "user_score"))
	mux.HandleFunc("GET /users/{id}/history", MetricsMiddleware(s.usersHandler.HandleGetHistory, "user_history"))
	mux.HandleFunc("GET /policy", MetricsMiddleware(s.policyHandler.HandleGetPolicy, "policy"))
	mux.HandleFunc("POST /refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes the matching error response.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}
