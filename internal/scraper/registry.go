package scraper

import "go-leadgen-automation/internal/models"

// Registry maps sources to their adapters.
type Registry struct {
	adapters map[models.Source]Adapter
}

func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[models.Source]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Source()] = a
	}
	return r
}

func (r *Registry) Get(source models.Source) (Adapter, bool) {
	a, ok := r.adapters[source]
	return a, ok
}

func (r *Registry) Len() int {
	return len(r.adapters)
}
