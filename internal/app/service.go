// Package service runs the ranking pipeline: it reads contest data through a
// gateway, scores it, builds the leaderboards and keeps the latest result in
// a ranking store.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/adapters/repository"
	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/ranking"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/internal/domain/types"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
	"github.com/JetxcheDev/f1-prode/pkg/metrics"
)

const defaultRefreshInterval = time.Minute

// Service implements the API dependencies for the ranking system.
type Service struct {
	mu sync.RWMutex

	gateway gateway.Gateway
	store   repository.Store
	now     func() time.Time

	rankingSize     int
	minVotes        int
	refreshInterval time.Duration

	// refreshMu serializes refreshes.
	refreshMu sync.Mutex

	started      bool
	stopCh       chan struct{}
	loopDone     chan struct{}
	refreshCount int
	failureCount int
	lastRefresh  time.Time
	lastErr      error
	lastSummary  types.RefreshSummary

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewMemoryStore(),
		now:             time.Now,
		rankingSize:     ranking.DefaultLimit,
		minVotes:        ranking.DefaultMinVotes,
		refreshInterval: defaultRefreshInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start runs a first refresh and, when an interval is set, the background
// refresh loop. A failing first refresh is logged, not returned; reads retry.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.gateway == nil {
		s.mu.Unlock()
		return ErrNoGateway
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	s.stopCh = make(chan struct{})
	s.loopDone = make(chan struct{})
	s.started = true
	interval := s.refreshInterval
	s.mu.Unlock()

	s.logger.Info(ctx, "starting ranking service",
		logger.Int("rankingSize", s.rankingSize),
		logger.Int("minVotes", s.minVotes),
		logger.String("refreshInterval", interval.String()),
	)

	if _, err := s.Refresh(ctx); err != nil {
		s.logger.Warn(ctx, "initial refresh failed", logger.Error(err))
	}

	if interval > 0 {
		go s.refreshLoop(interval)
	} else {
		close(s.loopDone)
	}
	return nil
}

// Stop ends the refresh loop and waits for it to exit.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	done := s.loopDone
	s.mu.Unlock()

	<-done
	s.logger.Info(context.Background(), "ranking service stopped")
}

func (s *Service) refreshLoop(interval time.Duration) {
	defer close(s.loopDone)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.logger.Error(ctx, "scheduled refresh failed", logger.Error(err))
			}
		}
	}
}

// snapshot is one consistent read of every gateway collection.
type snapshot struct {
	users     []model.User
	events    []model.Event
	forecasts []model.Forecast
	results   []model.OfficialResult
	overrides *scoring.PolicyOverrides
}

// fetch reads all collections in parallel; the first failure cancels the rest.
func (s *Service) fetch(ctx context.Context) (snapshot, error) {
	var snap snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.users, err = s.gateway.ListUsers(gctx)
		return wrapFetch(gateway.CollectionUsers, err)
	})
	g.Go(func() (err error) {
		snap.events, err = s.gateway.ListEvents(gctx)
		return wrapFetch(gateway.CollectionEvents, err)
	})
	g.Go(func() (err error) {
		snap.forecasts, err = s.gateway.ListAllForecasts(gctx)
		return wrapFetch(gateway.CollectionForecasts, err)
	})
	g.Go(func() (err error) {
		snap.results, err = s.gateway.ListResults(gctx)
		return wrapFetch(gateway.CollectionResults, err)
	})
	g.Go(func() (err error) {
		snap.overrides, err = s.gateway.GetScoringPolicyOverrides(gctx)
		return wrapFetch(gateway.CollectionPolicy, err)
	})
	if err := g.Wait(); err != nil {
		return snapshot{}, err
	}
	return snap, nil
}

func wrapFetch(collection string, err error) error {
	if err != nil {
		return fmt.Errorf("fetch %s: %w", collection, err)
	}
	return nil
}

// Refresh rescores the contest from the gateway and stores the result. On a
// gateway failure nothing is stored and the previous rankings stay in place.
func (s *Service) Refresh(ctx context.Context) (types.RefreshSummary, error) {
	if s.gateway == nil {
		return types.RefreshSummary{}, ErrNoGateway
	}
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	rec, err := s.compute(ctx)
	durationMs := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordRefresh(durationMs, err)
	if err != nil {
		metrics.RecordErrorByComponent("service", "refresh")
		s.recordOutcome(types.RefreshSummary{}, err)
		return types.RefreshSummary{}, err
	}

	if err := s.store.Save(ctx, rec); err != nil {
		// The record is still returned to this caller; reads recompute.
		s.log().Warn(ctx, "store rankings failed", logger.Error(err))
		metrics.RecordErrorByComponent("store", "save")
	}

	summary := types.RefreshSummary{
		GeneratedAt:        rec.GeneratedAt,
		DurationMs:         durationMs,
		Users:              rec.Counts.Users,
		ActiveParticipants: rec.Rankings.Summary.ActiveParticipants,
		Events:             rec.Counts.Events,
		DecidedEvents:      rec.Counts.DecidedEvents,
		Forecasts:          rec.Counts.Forecasts,
	}
	metrics.UpdateRefreshSnapshot(rec.GeneratedAt.Unix(), summary.Users, summary.ActiveParticipants,
		summary.DecidedEvents, summary.Forecasts)
	s.recordOutcome(summary, nil)

	s.log().Debug(ctx, "rankings refreshed",
		logger.Int("users", summary.Users),
		logger.Int("participants", summary.ActiveParticipants),
		logger.Int("decidedEvents", summary.DecidedEvents),
		logger.Float64("durationMs", durationMs),
	)
	return summary, nil
}

func (s *Service) compute(ctx context.Context) (repository.Record, error) {
	snap, err := s.fetch(ctx)
	if err != nil {
		return repository.Record{}, err
	}

	now := s.now()
	policy := scoring.Merge(snap.overrides)
	scores := scoring.NewAggregator(scoring.WithFixedTime(now)).
		Aggregate(snap.users, snap.events, snap.forecasts, snap.results, policy)
	set := ranking.Build(scores, ranking.WithLimit(s.rankingSize), ranking.WithMinVotes(s.minVotes))

	withResult := lo.SliceToMap(snap.results, func(r model.OfficialResult) (string, struct{}) {
		return r.EventID, struct{}{}
	})
	decided := lo.CountBy(snap.events, func(e model.Event) bool {
		_, ok := withResult[e.ID]
		return e.Decided(now, ok)
	})

	return repository.Record{
		GeneratedAt: now,
		Policy:      policy,
		Scores:      scores,
		Rankings:    set,
		Counts: repository.Counts{
			Users:         len(snap.users),
			Events:        len(snap.events),
			DecidedEvents: decided,
			Forecasts:     len(snap.forecasts),
			Results:       len(snap.results),
		},
	}, nil
}

func (s *Service) recordOutcome(summary types.RefreshSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
	if err != nil {
		s.failureCount++
		return
	}
	s.refreshCount++
	s.lastRefresh = summary.GeneratedAt
	s.lastSummary = summary
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Named("service")
	}
	return l
}

// latest returns the stored record, refreshing when nothing usable is stored.
func (s *Service) latest(ctx context.Context) (repository.Record, error) {
	rec, err := s.store.Latest(ctx)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.log().Warn(ctx, "read stored rankings failed; recomputing", logger.Error(err))
		metrics.RecordErrorByComponent("store", "latest")
	}
	if _, err := s.Refresh(ctx); err != nil {
		return repository.Record{}, err
	}
	rec, err = s.store.Latest(ctx)
	if err != nil {
		// Store unusable: serve a fresh computation directly.
		return s.compute(ctx)
	}
	return rec, nil
}

// Rankings returns every leaderboard.
func (s *Service) Rankings(ctx context.Context) (ranking.RankingSet, error) {
	rec, err := s.latest(ctx)
	if err != nil {
		return ranking.RankingSet{}, err
	}
	return rec.Rankings, nil
}

// View returns one leaderboard by name. A positive limit truncates it further.
func (s *Service) View(ctx context.Context, name string, limit int) (types.ViewResult, error) {
	if limit < 0 {
		return types.ViewResult{}, ErrInvalidLimit
	}
	if !lo.Contains(ranking.Views, name) {
		return types.ViewResult{}, ranking.ErrUnknownView
	}
	rec, err := s.latest(ctx)
	if err != nil {
		return types.ViewResult{}, err
	}
	entries, err := rec.Rankings.View(name)
	if err != nil {
		return types.ViewResult{}, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return types.ViewResult{View: name, GeneratedAt: rec.GeneratedAt, Entries: entries}, nil
}

// UserScore returns a user's aggregate and overall rank.
func (s *Service) UserScore(ctx context.Context, userID string) (types.UserStanding, error) {
	rec, err := s.latest(ctx)
	if err != nil {
		return types.UserStanding{}, err
	}
	score, err := rec.Score(userID)
	if err != nil {
		return types.UserStanding{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	standing := types.UserStanding{UserScore: score, GeneratedAt: rec.GeneratedAt}
	if pos, err := rec.Rankings.Position(userID); err == nil {
		standing.Rank = pos.Rank
	}
	return standing, nil
}

// History returns the per-event breakdown of a user's scored forecasts,
// newest event first. It always reads the gateway.
func (s *Service) History(ctx context.Context, userID string) ([]scoring.HistoryEntry, error) {
	if s.gateway == nil {
		return nil, ErrNoGateway
	}
	snap, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if !lo.ContainsBy(snap.users, func(u model.User) bool { return u.ID == userID }) {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	agg := scoring.NewAggregator(scoring.WithFixedTime(s.now()))
	return agg.History(userID, snap.events, snap.forecasts, snap.results, scoring.Merge(snap.overrides)), nil
}

// Policy returns the effective scoring policy.
func (s *Service) Policy(ctx context.Context) (types.PolicyInfo, error) {
	if s.gateway == nil {
		return types.PolicyInfo{}, ErrNoGateway
	}
	overrides, err := s.gateway.GetScoringPolicyOverrides(ctx)
	if err != nil {
		return types.PolicyInfo{}, wrapFetch(gateway.CollectionPolicy, err)
	}
	return types.NewPolicyInfo(overrides), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"rankingSize":     s.rankingSize,
		"minVotes":        s.minVotes,
		"refreshInterval": s.refreshInterval.String(),
		"refreshCount":    s.refreshCount,
		"failureCount":    s.failureCount,
	}
	if !s.lastRefresh.IsZero() {
		stats["lastRefresh"] = s.lastRefresh.Format(time.RFC3339)
		stats["users"] = s.lastSummary.Users
		stats["activeParticipants"] = s.lastSummary.ActiveParticipants
		stats["events"] = s.lastSummary.Events
		stats["decidedEvents"] = s.lastSummary.DecidedEvents
		stats["forecasts"] = s.lastSummary.Forecasts
		stats["lastRefreshMs"] = s.lastSummary.DurationMs
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	return stats
}
