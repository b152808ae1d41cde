// Package gateway provides read access to contest data: users, events,
// forecasts, official results and the scoring policy overrides.
//
// Implementations: an in-memory store fed from YAML snapshots, Postgres (pgx)
// and SQLite.
package gateway

import (
	"context"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// Gateway is the read-only data contract consumed by the ranking service.
type Gateway interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	ListEvents(ctx context.Context) ([]model.Event, error)
	ListForecastsForEvent(ctx context.Context, eventID string) ([]model.Forecast, error)
	ListAllForecasts(ctx context.Context) ([]model.Forecast, error)
	ListResults(ctx context.Context) ([]model.OfficialResult, error)
	// GetScoringPolicyOverrides returns nil when no administrator override exists.
	GetScoringPolicyOverrides(ctx context.Context) (*scoring.PolicyOverrides, error)
}

// Writer seeds a backend with a full contest snapshot. The simulator and the
// tests use it; the ranking service never writes.
type Writer interface {
	Import(ctx context.Context, snap Snapshot) error
}

// Snapshot is a complete contest dataset, also the YAML file format.
type Snapshot struct {
	Users     []model.User             `json:"users" yaml:"users"`
	Pilots    []model.Pilot            `json:"pilots,omitempty" yaml:"pilots,omitempty"`
	Events    []model.Event            `json:"events" yaml:"events"`
	Forecasts []model.Forecast         `json:"forecasts" yaml:"forecasts"`
	Results   []model.OfficialResult   `json:"results" yaml:"results"`
	Policy    *scoring.PolicyOverrides `json:"policy,omitempty" yaml:"policy,omitempty"`
}

// Collection names used in logs and metrics.
const (
	CollectionUsers     = "users"
	CollectionEvents    = "events"
	CollectionForecasts = "forecasts"
	CollectionResults   = "results"
	CollectionPolicy    = "policy"
)
