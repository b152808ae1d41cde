package repository

import "time"

const defaultRedisKey = "prode:rankings:latest"

type settings struct {
	ttl time.Duration
	key string
	now func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{key: defaultRedisKey, now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Option configures a Store.
type Option func(*settings)

// WithTTL expires stored records after d. Zero keeps them until replaced.
func WithTTL(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.ttl = d
		}
	}
}

// WithKey sets the Redis key used to hold the record.
func WithKey(key string) Option {
	return func(s *settings) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock overrides the clock used for expiry in the memory store.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}
