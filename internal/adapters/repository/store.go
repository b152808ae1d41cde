// Package repository stores the latest computed rankings so that reads do
// not have to rescore the whole contest.
package repository

import (
	"context"
	"time"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// Counts describes the input snapshot a record was computed from.
type Counts struct {
	Users         int `json:"users"`
	Events        int `json:"events"`
	DecidedEvents int `json:"decided_events"`
	Forecasts     int `json:"forecasts"`
	Results       int `json:"results"`
}

// Record is one refresh's output.
type Record struct {
	GeneratedAt time.Time          `json:"generated_at"`
	Policy      scoring.Policy     `json:"policy"`
	Scores      []model.UserScore  `json:"scores"`
	Rankings    ranking.RankingSet `json:"rankings"`
	Counts      Counts             `json:"counts"`
}

// Score returns the stored score of userID, voters and non-voters alike.
func (r Record) Score(userID string) (model.UserScore, error) {
	for _, s := range r.Scores {
		if s.UserID == userID {
			return s, nil
		}
	}
	return model.UserScore{}, ErrNotFound
}

// Store keeps the latest Record.
type Store interface {
	// Save replaces the stored record.
	Save(ctx context.Context, rec Record) error
	// Latest returns the stored record, or ErrNotFound when nothing is stored
	// or the record expired.
	Latest(ctx context.Context) (Record, error)
	// Clear drops the stored record.
	Clear(ctx context.Context) error
}
