package ranking

// Default builder settings.
const (
	DefaultLimit    = 10
	DefaultMinVotes = 1
)

// Option configures Build.
type Option func(*builder)

// WithLimit caps every top view at n entries. Non-positive values are ignored.
func WithLimit(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.limit = n
		}
	}
}

// WithMinVotes sets the minimum attempts a user needs to enter an accuracy view.
func WithMinVotes(n int) Option {
	return func(b *builder) {
		if n > 0 {
			b.minVotes = n
		}
	}
}
