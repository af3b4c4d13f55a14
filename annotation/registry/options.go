package registry

// Option configures a Registries at construction time, alongside the
// variadic NewRegistries constructor, for callers assembling the list
// conditionally.
type Option func(*Registries)

// WithRegistry appends reg to the Registries being built.
func WithRegistry(reg Registry) Option {
	return func(r *Registries) { r.list = append(r.list, reg) }
}

// Configure builds a Registries from opts, applied in order.
func Configure(opts ...Option) *Registries {
	r := &Registries{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
