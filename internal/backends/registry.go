package backends

// Registry holds the configured backends by name.
type Registry struct {
	concurrent map[string]Backend
	exclusive  map[string]ExclusiveBackend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		concurrent: make(map[string]Backend),
		exclusive:  make(map[string]ExclusiveBackend),
	}
}

// Register adds a concurrent-capable backend.
func (r *Registry) Register(b Backend) {
	r.concurrent[b.Name()] = b
}

// RegisterExclusive adds an exclusively-owned sequential backend.
func (r *Registry) RegisterExclusive(b ExclusiveBackend) {
	r.exclusive[b.Name()] = b
}

// Names returns every registered backend name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.concurrent)+len(r.exclusive))
	for name := range r.concurrent {
		names = append(names, name)
	}
	for name := range r.exclusive {
		names = append(names, name)
	}
	return names
}

// Partition splits requested names into concurrent backends, exclusive
// backends, and names nothing is registered under. Requested order is
// preserved within each group.
func (r *Registry) Partition(names []string) (concurrent []Backend, exclusive []ExclusiveBackend, unknown []string) {
	for _, name := range names {
		if b, ok := r.concurrent[name]; ok {
			concurrent = append(concurrent, b)
			continue
		}
		if b, ok := r.exclusive[name]; ok {
			exclusive = append(exclusive, b)
			continue
		}
		unknown = append(unknown, name)
	}
	return concurrent, exclusive, unknown
}
