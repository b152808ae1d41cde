package service

import (
	"time"

	"github.com/JetxcheDev/f1-prode/internal/adapters/gateway"
	"github.com/JetxcheDev/f1-prode/internal/adapters/repository"
	"github.com/JetxcheDev/f1-prode/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithGateway sets the data source.
func WithGateway(g gateway.Gateway) Option {
	return func(s *Service) {
		if g != nil {
			s.gateway = g
		}
	}
}

// WithStore sets where computed rankings are kept.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithRankingSize caps every top view.
func WithRankingSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rankingSize = n
		}
	}
}

// WithMinVotes sets the minimum attempts for the accuracy views.
func WithMinVotes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.minVotes = n
		}
	}
}

// WithRefreshInterval schedules background refreshes. Zero disables them.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithClock overrides the clock used to decide events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
