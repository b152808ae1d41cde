package contestsim

import (
	"time"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// Expected scores snap locally the way the service does and returns the
// leaderboards it should publish.
func Expected(snap gateway.Snapshot, now time.Time, opts ...ranking.Option) ranking.RankingSet {
	scores := scoring.NewAggregator(scoring.WithFixedTime(now)).
		Aggregate(snap.Users, snap.Events, snap.Forecasts, snap.Results, scoring.Merge(snap.Policy))
	return ranking.Build(scores, opts...)
}
