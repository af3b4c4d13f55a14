package scanner

import "github.com/viant/anno/annotation"

// Option configures a Scanner at construction time, the same functional
// options style as mapping.Resolver.
type Option func(*Scanner)

// WithStrategy sets the SearchStrategy used for every Scan call. Defaults to
// Direct.
func WithStrategy(s Strategy) Option {
	return func(sc *Scanner) { sc.strategy = s }
}

// Scanner bundles a provider with a fixed SearchStrategy, so repeated scans
// over the same hierarchy depth don't need to repeat the strategy argument.
type Scanner struct {
	provider annotation.IntrospectionProvider
	strategy Strategy
}

// New builds a Scanner over provider with the given options applied.
func New(provider annotation.IntrospectionProvider, opts ...Option) *Scanner {
	sc := &Scanner{provider: provider, strategy: Direct}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// Strategy returns the configured SearchStrategy.
func (sc *Scanner) Strategy() Strategy { return sc.strategy }

// Scan runs Scan(provider, strategy, source) with this Scanner's configured
// provider and strategy.
func (sc *Scanner) Scan(source annotation.Element) ([]Aggregate, error) {
	return Scan(sc.provider, sc.strategy, source)
}
