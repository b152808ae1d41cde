package scoring

import "time"

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithClock sets the clock used to decide whether an event's forecast
// deadline has passed.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithFixedTime judges every event against t.
func WithFixedTime(t time.Time) Option {
	return WithClock(func() time.Time { return t })
}

// WithFallbackDisplayName sets the name given to users without one.
func WithFallbackDisplayName(name string) Option {
	return func(a *Aggregator) {
		if name != "" {
			a.fallbackDisplay = name
		}
	}
}
