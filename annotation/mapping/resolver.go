package mapping

import (
	"github.com/viant/anno/annotation"
	"github.com/viant/anno/annotation/filter"
	"github.com/viant/anno/annotation/repeatable"
)

// Resolver bundles one IntrospectionProvider with the filter and repeatable
// containers policy every mapping lookup needs, plus the process-wide cache
// (§5), configured with functional options in the teacher's
// analyzer.Option/WithLanguage style rather than a long constructor
// parameter list.
type Resolver struct {
	provider   annotation.IntrospectionProvider
	cache      *Cache
	filter     filter.Filter
	containers repeatable.Containers
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithFilter sets the AnnotationFilter consulted while building mappings and
// computing cache identity. Defaults to filter.NONE.
func WithFilter(f filter.Filter) Option {
	return func(r *Resolver) { r.filter = f }
}

// WithRepeatableContainers sets the RepeatableContainers policy folded into
// cache identity. Defaults to repeatable.None().
func WithRepeatableContainers(c repeatable.Containers) Option {
	return func(r *Resolver) { r.containers = c }
}

// WithCache overrides the Resolver's cache, e.g. to share one Cache across
// several Resolvers that target the same provider. Defaults to a fresh,
// private Cache.
func WithCache(c *Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// NewResolver builds a Resolver over provider, applying opts in order.
func NewResolver(provider annotation.IntrospectionProvider, opts ...Option) *Resolver {
	r := &Resolver{
		provider:   provider,
		cache:      NewCache(),
		filter:     filter.NONE,
		containers: repeatable.None(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mappings returns the AnnotationTypeMappings for rootType, through this
// Resolver's cache/filter/containers configuration.
func (r *Resolver) Mappings(rootType string) (*Mappings, error) {
	return r.cache.Get(r.provider, r.filter, r.containers, rootType)
}

// Provider returns the underlying IntrospectionProvider.
func (r *Resolver) Provider() annotation.IntrospectionProvider { return r.provider }

// Filter returns the configured AnnotationFilter.
func (r *Resolver) Filter() filter.Filter { return r.filter }

// Containers returns the configured RepeatableContainers policy.
func (r *Resolver) Containers() repeatable.Containers { return r.containers }
