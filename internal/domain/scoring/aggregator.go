package scoring

import (
	"time"

	"github.com/samber/lo"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
)

const (
	// positionAttemptsPerForecast counts every top-ten slot as one attempt,
	// whether or not the forecast filled it.
	positionAttemptsPerForecast = model.TopSlots
	percent                     = 100
)

// DefaultDisplayName is used for users without a display name.
const DefaultDisplayName = "Usuario"

// Aggregator computes one UserScore per known user from a snapshot of events,
// forecasts and results.
type Aggregator struct {
	now             func() time.Time
	fallbackDisplay string
}

// NewAggregator creates an Aggregator. By default events are judged against
// the wall clock.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		now:             time.Now,
		fallbackDisplay: DefaultDisplayName,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate scores every forecast of every decided event and returns one
// UserScore per entry in users, in the same order. Forecasts whose user is not
// in users are ignored. A decided event without a matching result is skipped.
func (a *Aggregator) Aggregate(
	users []model.User,
	events []model.Event,
	forecasts []model.Forecast,
	results []model.OfficialResult,
	policy Policy,
) []model.UserScore {
	scores := make([]model.UserScore, len(users))
	byUser := make(map[string]*model.UserScore, len(users))
	for i, u := range users {
		scores[i] = model.UserScore{UserID: u.ID, DisplayName: a.displayName(u)}
		if _, dup := byUser[u.ID]; !dup {
			byUser[u.ID] = &scores[i]
		}
	}

	// An event counts once; the first listed wins.
	events = uniqEvents(events)
	// A user counts once per event; the first forecast listed wins.
	forecasts = lo.UniqBy(forecasts, func(f model.Forecast) [2]string { return [2]string{f.UserID, f.EventID} })
	forecastsByEvent := lo.GroupBy(forecasts, func(f model.Forecast) string { return f.EventID })
	resultByEvent := lo.KeyBy(
		lo.UniqBy(results, func(r model.OfficialResult) string { return r.EventID }),
		func(r model.OfficialResult) string { return r.EventID },
	)

	// Participation counts forecasts for any listed event, decided or not.
	for _, e := range events {
		for _, f := range forecastsByEvent[e.ID] {
			if s, ok := byUser[f.UserID]; ok {
				s.HasVoted = true
			}
		}
	}

	now := a.now()
	decided := lo.Filter(events, func(e model.Event, _ int) bool {
		_, ok := resultByEvent[e.ID]
		return e.Decided(now, ok)
	})

	for _, e := range decided {
		result, ok := resultByEvent[e.ID]
		if !ok {
			continue
		}
		for _, f := range forecastsByEvent[e.ID] {
			s, ok := byUser[f.UserID]
			if !ok {
				continue
			}
			apply(s, ScoreForecast(f, result, policy))
		}
	}

	for i := range scores {
		deriveAccuracy(&scores[i])
	}
	return scores
}

func (a *Aggregator) displayName(u model.User) string {
	if u.DisplayName == "" {
		return a.fallbackDisplay
	}
	return u.DisplayName
}

func apply(s *model.UserScore, fs ForecastScore) {
	s.RacesParticipated++
	s.TotalPoleVotes++
	s.TotalCrashVotes++
	s.TotalPositionVotes += positionAttemptsPerForecast

	if fs.PoleHit {
		s.PoleHits++
	}
	if fs.CrashHit {
		s.CrashHits++
	}
	s.PositionHits += fs.PositionHits
	s.TotalPoints += fs.Points
}

func deriveAccuracy(s *model.UserScore) {
	s.PoleAccuracy = Accuracy(s.PoleHits, s.TotalPoleVotes)
	s.CrashAccuracy = Accuracy(s.CrashHits, s.TotalCrashVotes)
	s.PositionAccuracy = Accuracy(s.PositionHits, s.TotalPositionVotes)
}

// Accuracy returns hits/attempts as a percentage, or 0 when there were no
// attempts.
func Accuracy(hits, attempts int) float64 {
	if attempts <= 0 {
		return 0
	}
	return float64(hits) / float64(attempts) * percent
}

func uniqEvents(events []model.Event) []model.Event {
	return lo.UniqBy(events, func(e model.Event) string { return e.ID })
}
