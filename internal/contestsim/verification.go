package contestsim

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

// CompareEntries checks that got lists the same users, ranks and points as
// want, in order.
func CompareEntries(want, got []ranking.Entry) error {
	if len(want) != len(got) {
		return fmt.Errorf("%w: expected %d entries, got %d", ErrMismatch, len(want), len(got))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.UserID != g.UserID || w.Rank != g.Rank || w.TotalPoints != g.TotalPoints {
			return fmt.Errorf("%w: entry %d: expected #%d %s (%d pts), got #%d %s (%d pts)",
				ErrMismatch, i, w.Rank, w.UserID, w.TotalPoints, g.Rank, g.UserID, g.TotalPoints)
		}
	}
	return nil
}

// verifyUsers fetches every participant's standing concurrently and counts
// the ones that disagree with the expected overall order.
func verifyUsers(ctx context.Context, cfg Config, client *HTTPClient, expected ranking.RankingSet, stats *Stats) error {
	var checked, mismatched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, want := range expected.Standings {
		g.Go(func() error {
			got, err := client.UserScore(gctx, want.UserID)
			if err != nil {
				return fmt.Errorf("user %s: %w", want.UserID, err)
			}
			checked.Add(1)
			if got.Rank != want.Rank || got.TotalPoints != want.TotalPoints {
				mismatched.Add(1)
				if cfg.Verbose {
					logger.Get().Warn(gctx, "user standing differs",
						logger.String("userID", want.UserID),
						logger.Int("expectedRank", want.Rank),
						logger.Int("rank", got.Rank),
						logger.Int("expectedPoints", want.TotalPoints),
						logger.Int("points", got.TotalPoints))
				}
			}
			return nil
		})
	}
	err := g.Wait()

	stats.UsersChecked = int(checked.Load())
	stats.Mismatches = int(mismatched.Load())
	if err != nil {
		return err
	}
	if stats.Mismatches > 0 {
		return fmt.Errorf("%w: %d of %d users", ErrMismatch, stats.Mismatches, stats.UsersChecked)
	}
	return nil
}
