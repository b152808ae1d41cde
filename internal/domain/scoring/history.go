package scoring

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
)

// HistoryEntry is a user's scored forecast for one decided event.
type HistoryEntry struct {
	Event    model.Event          `json:"event"`
	Forecast model.Forecast       `json:"forecast"`
	Result   model.OfficialResult `json:"result"`
	Score    ForecastScore        `json:"score"`
}

// History returns the breakdown of every forecast userID placed on a decided
// event, newest event first. It applies the same decided rule as Aggregate.
func (a *Aggregator) History(
	userID string,
	events []model.Event,
	forecasts []model.Forecast,
	results []model.OfficialResult,
	policy Policy,
) []HistoryEntry {
	// The first forecast per event wins if the gateway returns duplicates.
	mine := lo.KeyBy(
		lo.UniqBy(
			lo.Filter(forecasts, func(f model.Forecast, _ int) bool { return f.UserID == userID }),
			func(f model.Forecast) string { return f.EventID },
		),
		func(f model.Forecast) string { return f.EventID },
	)
	if len(mine) == 0 {
		return nil
	}
	resultByEvent := lo.KeyBy(
		lo.UniqBy(results, func(r model.OfficialResult) string { return r.EventID }),
		func(r model.OfficialResult) string { return r.EventID },
	)

	now := a.now()
	var out []HistoryEntry
	for _, e := range uniqEvents(events) {
		f, ok := mine[e.ID]
		if !ok {
			continue
		}
		r, ok := resultByEvent[e.ID]
		if !e.Decided(now, ok) {
			continue
		}
		out = append(out, HistoryEntry{
			Event:    e,
			Forecast: f,
			Result:   r,
			Score:    ScoreForecast(f, r, policy),
		})
	}

	slices.SortStableFunc(out, func(x, y HistoryEntry) int {
		if c := y.Event.Date.Compare(x.Event.Date); c != 0 {
			return c
		}
		return cmp.Compare(x.Event.ID, y.Event.ID)
	})
	return out
}
