// Package model contains domain models passed between layers.
package model

import "time"

// EventStatus is the administrative status of a race. It is informational only;
// whether an event counts for scoring is decided by Event.Decided.
type EventStatus string

// Known event statuses.
const (
	StatusUpcoming  EventStatus = "upcoming"
	StatusActive    EventStatus = "active"
	StatusCompleted EventStatus = "completed"
)

// TopSlots is the number of finishing positions a forecast predicts.
const TopSlots = 10

// Pilot is a competitor. Forecasts and results only reference pilots by ID.
type Pilot struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Team    string `json:"team" yaml:"team"`
	Number  int    `json:"number" yaml:"number"`
	Country string `json:"country" yaml:"country"`
	Active  bool   `json:"active" yaml:"active"`
}

// User is a contest participant.
type User struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Email       string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Event represents a scheduled race.
type Event struct {
	ID               string      `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Location         string      `json:"location,omitempty" yaml:"location,omitempty"`
	Status           EventStatus `json:"status" yaml:"status"`
	Date             time.Time   `json:"date" yaml:"date"`
	ForecastDeadline time.Time   `json:"forecast_deadline" yaml:"forecast_deadline"`
}

// DeadlinePassed reports whether forecasting for the event closed before now.
func (e Event) DeadlinePassed(now time.Time) bool {
	return now.After(e.ForecastDeadline)
}

// Decided reports whether the event counts for scoring: its deadline passed and
// an official result has been published for it.
func (e Event) Decided(now time.Time, hasResult bool) bool {
	return hasResult && e.DeadlinePassed(now)
}

// Forecast is one user's prediction for one event.
type Forecast struct {
	ID         string   `json:"id" yaml:"id"`
	UserID     string   `json:"user_id" yaml:"user_id"`
	EventID    string   `json:"event_id" yaml:"event_id"`
	Pole       string   `json:"pole" yaml:"pole"`
	Positions  []string `json:"positions" yaml:"positions"` // nominally TopSlots entries
	CrashPilot string   `json:"crash_pilot" yaml:"crash_pilot"`
}

// OfficialResult is the published outcome of an event.
type OfficialResult struct {
	ID         string   `json:"id" yaml:"id"`
	EventID    string   `json:"event_id" yaml:"event_id"`
	Pole       string   `json:"pole" yaml:"pole"`
	Positions  []string `json:"positions" yaml:"positions"`     // finishing order
	CrashPilot string   `json:"crash_pilot" yaml:"crash_pilot"` // empty: no retirement awarded
}

// UserScore is the aggregate a scoring run produces for one user.
type UserScore struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalPoints int    `json:"total_points"`

	PoleHits     int `json:"pole_hits"`
	CrashHits    int `json:"crash_hits"`
	PositionHits int `json:"position_hits"`

	TotalPoleVotes     int `json:"total_pole_votes"`
	TotalCrashVotes    int `json:"total_crash_votes"`
	TotalPositionVotes int `json:"total_position_votes"`

	// Percentages in [0,100]; zero when there were no attempts.
	PoleAccuracy     float64 `json:"pole_accuracy"`
	CrashAccuracy    float64 `json:"crash_accuracy"`
	PositionAccuracy float64 `json:"position_accuracy"`

	RacesParticipated int  `json:"races_participated"`
	HasVoted          bool `json:"has_voted"`
}
