package guard

// Option configures the in-memory guard.
type Option func(*inMemoryGuard)

// WithMaxSize bounds the number of remembered claims. Zero or less disables eviction.
func WithMaxSize(maxSize int) Option {
	return func(g *inMemoryGuard) {
		g.maxSize = maxSize
	}
}
