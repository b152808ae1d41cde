// Package types contains response shapes shared by the service, the HTTP API
// and the CLI.
package types

import (
	"time"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// ViewResult is one leaderboard view.
type ViewResult struct {
	View        string          `json:"view"`
	GeneratedAt time.Time       `json:"generated_at"`
	Entries     []ranking.Entry `json:"entries"`
}

// UserStanding is a user's aggregate plus their overall rank. Rank is zero
// for users who never forecast.
type UserStanding struct {
	Rank int `json:"rank"`
	model.UserScore
	GeneratedAt time.Time `json:"generated_at"`
}

// Ranked reports whether the user holds an overall position.
func (u UserStanding) Ranked() bool { return u.Rank > 0 }

// PolicyInfo is the effective scoring policy.
type PolicyInfo struct {
	scoring.Policy
	MaxEventPoints int  `json:"max_event_points"`
	Customized     bool `json:"customized"`
}

// NewPolicyInfo merges overrides onto the defaults.
func NewPolicyInfo(overrides *scoring.PolicyOverrides) PolicyInfo {
	p := scoring.Merge(overrides)
	return PolicyInfo{
		Policy:         p,
		MaxEventPoints: p.MaxEventPoints(),
		Customized:     p != scoring.Defaults(),
	}
}

// RefreshSummary reports the outcome of a refresh.
type RefreshSummary struct {
	GeneratedAt        time.Time `json:"generated_at"`
	DurationMs         float64   `json:"duration_ms"`
	Users              int       `json:"users"`
	ActiveParticipants int       `json:"active_participants"`
	Events             int       `json:"events"`
	DecidedEvents      int       `json:"decided_events"`
	Forecasts          int       `json:"forecasts"`
}
