// Package ranking orders aggregated user scores into leaderboards.
package ranking

import (
	"cmp"
	"slices"

	"github.com/samber/lo"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
)

// View names accepted by RankingSet.View.
const (
	ViewOverall  = "overall"
	ViewPole     = "pole"
	ViewCrash    = "crash"
	ViewPosition = "position"
	ViewAll      = "all"
)

// Views lists every view name in display order.
var Views = []string{ViewOverall, ViewPole, ViewCrash, ViewPosition, ViewAll}

// Entry is a ranked user. Rank is 1-based.
type Entry struct {
	Rank int `json:"rank"`
	model.UserScore
}

// Summary holds the headline numbers shown above the leaderboards.
type Summary struct {
	ActiveParticipants int    `json:"active_participants"`
	Leader             *Entry `json:"leader,omitempty"`
	BestPole           *Entry `json:"best_pole,omitempty"`
	BestCrash          *Entry `json:"best_crash,omitempty"`
	BestPosition       *Entry `json:"best_position,omitempty"`
}

// RankingSet is the output of Build.
type RankingSet struct {
	AllUsers            []Entry `json:"all_users"`
	TopOverall          []Entry `json:"top_overall"`
	TopPoleAccuracy     []Entry `json:"top_pole_accuracy"`
	TopCrashAccuracy    []Entry `json:"top_crash_accuracy"`
	TopPositionAccuracy []Entry `json:"top_position_accuracy"`
	Summary             Summary `json:"summary"`

	// Standings is the full overall order without the cap.
	Standings []Entry `json:"standings"`
}

type builder struct {
	limit    int
	minVotes int
}

type metric struct {
	value    func(model.UserScore) float64
	attempts func(model.UserScore) int
}

var (
	byPoints = metric{
		value: func(s model.UserScore) float64 { return float64(s.TotalPoints) },
	}
	byPole = metric{
		value:    func(s model.UserScore) float64 { return s.PoleAccuracy },
		attempts: func(s model.UserScore) int { return s.TotalPoleVotes },
	}
	byCrash = metric{
		value:    func(s model.UserScore) float64 { return s.CrashAccuracy },
		attempts: func(s model.UserScore) int { return s.TotalCrashVotes },
	}
	byPosition = metric{
		value:    func(s model.UserScore) float64 { return s.PositionAccuracy },
		attempts: func(s model.UserScore) int { return s.TotalPositionVotes },
	}
)

// Build turns aggregated scores into leaderboards. Users that never forecast
// are dropped from every view. AllUsers keeps input order; the top views are
// sorted by their metric descending with ties broken by user ID ascending,
// then capped.
func Build(scores []model.UserScore, opts ...Option) RankingSet {
	b := &builder{limit: DefaultLimit, minVotes: DefaultMinVotes}
	for _, opt := range opts {
		opt(b)
	}

	voted := lo.Filter(scores, func(s model.UserScore, _ int) bool { return s.HasVoted })

	overall := b.rank(voted, byPoints)
	set := RankingSet{
		AllUsers:            unranked(voted),
		TopOverall:          capped(overall, b.limit),
		TopPoleAccuracy:     capped(b.rank(voted, byPole), b.limit),
		TopCrashAccuracy:    capped(b.rank(voted, byCrash), b.limit),
		TopPositionAccuracy: capped(b.rank(voted, byPosition), b.limit),
		Standings:           overall,
	}
	set.Summary = Summary{
		ActiveParticipants: len(voted),
		Leader:             first(set.TopOverall),
		BestPole:           first(set.TopPoleAccuracy),
		BestCrash:          first(set.TopCrashAccuracy),
		BestPosition:       first(set.TopPositionAccuracy),
	}
	return set
}

func (b *builder) rank(scores []model.UserScore, m metric) []Entry {
	eligible := scores
	if m.attempts != nil {
		eligible = lo.Filter(scores, func(s model.UserScore, _ int) bool { return m.attempts(s) >= b.minVotes })
	}
	sorted := slices.Clone(eligible)
	slices.SortStableFunc(sorted, func(x, y model.UserScore) int {
		if c := cmp.Compare(m.value(y), m.value(x)); c != 0 {
			return c
		}
		return cmp.Compare(x.UserID, y.UserID)
	})
	return lo.Map(sorted, func(s model.UserScore, i int) Entry { return Entry{Rank: i + 1, UserScore: s} })
}

func unranked(scores []model.UserScore) []Entry {
	return lo.Map(scores, func(s model.UserScore, _ int) Entry { return Entry{UserScore: s} })
}

func capped(entries []Entry, n int) []Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}

func first(entries []Entry) *Entry {
	if len(entries) == 0 {
		return nil
	}
	e := entries[0]
	return &e
}

// View returns the entries of the named view.
func (r RankingSet) View(name string) ([]Entry, error) {
	switch name {
	case ViewOverall:
		return r.TopOverall, nil
	case ViewPole:
		return r.TopPoleAccuracy, nil
	case ViewCrash:
		return r.TopCrashAccuracy, nil
	case ViewPosition:
		return r.TopPositionAccuracy, nil
	case ViewAll:
		return r.AllUsers, nil
	default:
		return nil, ErrUnknownView
	}
}

// Position returns the user's place in the uncapped overall order.
func (r RankingSet) Position(userID string) (Entry, error) {
	e, ok := lo.Find(r.Standings, func(e Entry) bool { return e.UserID == userID })
	if !ok {
		return Entry{}, ErrUserNotRanked
	}
	return e, nil
}
