package scoring

import (
	"slices"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
)

// ForecastScore is the breakdown of one forecast against one result.
type ForecastScore struct {
	EventID      string               `json:"event_id"`
	Points       int                  `json:"points"`
	PoleHit      bool                 `json:"pole_hit"`
	CrashHit     bool                 `json:"crash_hit"`
	PositionHits int                  `json:"position_hits"`
	Slots        [model.TopSlots]bool `json:"slots"`
}

// ScoreForecast scores f against r under p.
//
// Pole and crash are exact string matches; two empty crash picks match.
// A top-ten pick only scores when the pilot finished in exactly the predicted
// slot. Empty picks and slots missing from a short forecast never score.
func ScoreForecast(f model.Forecast, r model.OfficialResult, p Policy) ForecastScore {
	s := ForecastScore{EventID: r.EventID}

	if f.Pole == r.Pole {
		s.PoleHit = true
		s.Points += p.Pole
	}
	if f.CrashPilot == r.CrashPilot {
		s.CrashHit = true
		s.Points += p.Crash
	}

	n := min(len(f.Positions), model.TopSlots)
	for i := 0; i < n; i++ {
		predicted := f.Positions[i]
		if predicted == "" {
			continue
		}
		if slices.Index(r.Positions, predicted) != i {
			continue
		}
		s.Slots[i] = true
		s.PositionHits++
		s.Points += p.PositionPoints(i)
	}
	return s
}
