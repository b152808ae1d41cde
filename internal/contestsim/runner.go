// Package contestsim generates synthetic contests, publishes them where a
// running service can read them and checks that the service ranks them the
// same way a local scoring run does.
package contestsim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

// Run generates a contest, writes or imports it and, when BaseURL is set,
// verifies the service's leaderboard against the local computation.
func Run(ctx context.Context, cfg Config) (Stats, error) {
	cfg = cfg.withDefaults()
	stats := Stats{StartTime: time.Now()}
	log := logger.Named("contestsim")

	log.Info(ctx, "starting contest simulation",
		logger.Any("seed", cfg.Seed),
		logger.Int("users", cfg.Users),
		logger.Int("events", cfg.Events),
		logger.Int("decidedEvents", cfg.DecidedEvents),
		logger.String("baseURL", cfg.BaseURL))

	now := stats.StartTime
	snap, err := Generate(ctx, cfg, now)
	if err != nil {
		return stats, fmt.Errorf("generate contest: %w", err)
	}
	stats.Users = len(snap.Users)
	stats.Events = len(snap.Events)
	stats.DecidedEvents = len(snap.Results)
	stats.Forecasts = len(snap.Forecasts)

	if err := publish(ctx, cfg, snap); err != nil {
		return stats, err
	}

	expected := Expected(snap, now, ranking.WithLimit(cfg.TopN))
	stats.Participants = expected.Summary.ActiveParticipants
	logLeaders(ctx, log, expected.TopOverall)

	if cfg.BaseURL != "" {
		if err := verify(ctx, cfg, expected, &stats); err != nil {
			stats.Duration = time.Since(stats.StartTime)
			return stats, fmt.Errorf("verify service: %w", err)
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "simulation finished",
		logger.Int("users", stats.Users),
		logger.Int("participants", stats.Participants),
		logger.Int("forecasts", stats.Forecasts),
		logger.Int("usersChecked", stats.UsersChecked),
		logger.String("duration", stats.Duration.String()))
	return stats, nil
}

// publish writes the snapshot file and imports the contest into every
// configured database.
func publish(ctx context.Context, cfg Config, snap gateway.Snapshot) error {
	if cfg.Output != "" {
		if dir := filepath.Dir(cfg.Output); dir != "." {
			if err := os.MkdirAll(dir, directoryPerm); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		if err := gateway.SaveSnapshotFile(cfg.Output, snap); err != nil {
			return err
		}
		logger.Get().Info(ctx, "snapshot written", logger.String("path", cfg.Output))
	}

	if cfg.SQLitePath != "" {
		db, err := gateway.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		if err := importInto(ctx, db, snap, "sqlite"); err != nil {
			return err
		}
	}

	if cfg.DatabaseURL != "" {
		db, err := gateway.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
		if err := importInto(ctx, db, snap, "postgres"); err != nil {
			return err
		}
	}
	return nil
}

func importInto(ctx context.Context, w gateway.Writer, snap gateway.Snapshot, name string) error {
	if err := w.Import(ctx, snap); err != nil {
		return fmt.Errorf("import into %s: %w", name, err)
	}
	logger.Get().Info(ctx, "contest imported", logger.String("store", name))
	return nil
}

func verify(ctx context.Context, cfg Config, expected ranking.RankingSet, stats *Stats) error {
	client := NewHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return err
	}
	summary, err := client.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if summary.ActiveParticipants != stats.Participants {
		return fmt.Errorf("%w: service sees %d participants, expected %d",
			ErrMismatch, summary.ActiveParticipants, stats.Participants)
	}

	got, err := client.View(ctx, ranking.ViewOverall, cfg.TopN)
	if err != nil {
		return fmt.Errorf("fetch overall ranking: %w", err)
	}
	if err := CompareEntries(expected.TopOverall, got); err != nil {
		return err
	}
	logger.Get().Info(ctx, "overall leaderboard matches", logger.Int("entries", len(got)))

	return verifyUsers(ctx, cfg, client, expected, stats)
}

func logLeaders(ctx context.Context, log logger.Logger, top []ranking.Entry) {
	for _, e := range top {
		log.Info(ctx, "expected leader",
			logger.Int("rank", e.Rank),
			logger.String("user", e.DisplayName),
			logger.Int("points", e.TotalPoints),
			logger.Float64("positionAccuracy", e.PositionAccuracy))
	}
}
