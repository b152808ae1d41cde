package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/JetxcheDev/f1-prode/internal/contestsim"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		seed          = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Seed; equal seeds give equal contests")
		users         = flag.Int("users", contestsim.DefaultUsers, "Registered users")
		events        = flag.Int("events", contestsim.DefaultEvents, "Scheduled events")
		decided       = flag.Int("decided", contestsim.DefaultDecidedEvents, "Past events with an official result")
		participation = flag.Float64("participation", contestsim.DefaultParticipation, "Chance a user forecasts a given event")
		lurkers       = flag.Float64("lurkers", contestsim.DefaultLurkers, "Share of users who never forecast")
		workers       = flag.Int("workers", runtime.NumCPU(), "Concurrent generators and HTTP checks")
		output        = flag.String("output", "contest.yaml", "Snapshot file to write (empty skips)")
		sqlitePath    = flag.String("sqlite", "", "Import the contest into this SQLite database")
		databaseURL   = flag.String("database-url", "", "Import the contest into this Postgres database")
		baseURL       = flag.String("url", "", "Running service to verify, e.g. http://localhost:9080")
		topN          = flag.Int("top", contestsim.DefaultTopN, "Leaderboard entries compared against the service")
		timeout       = flag.Duration("timeout", contestsim.DefaultTimeout, "HTTP request timeout")
		verbose       = flag.Bool("verbose", false, "Log every mismatch")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err := contestsim.Run(ctx, contestsim.Config{
		Seed:          *seed,
		Users:         *users,
		Events:        *events,
		DecidedEvents: *decided,
		Participation: *participation,
		Lurkers:       *lurkers,
		Workers:       *workers,
		Output:        *output,
		SQLitePath:    *sqlitePath,
		DatabaseURL:   *databaseURL,
		BaseURL:       *baseURL,
		TopN:          *topN,
		Timeout:       *timeout,
		Verbose:       *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "simulation failed", logger.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
