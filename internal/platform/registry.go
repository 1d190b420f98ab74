package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/feral-file/ff-acquirer/internal/domain"
)

// Registry maps each enabled platform to its adapter
type Registry struct {
	mu       sync.RWMutex
	adapters map[domain.Platform]Adapter
}

// NewRegistry creates a registry holding the given adapters
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

// Register adds or replaces the adapter of a platform
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Platform()] = a
}

// Get returns the adapter of a platform, or a configuration error when none is registered
func (r *Registry) Get(p domain.Platform) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[p]
	if !ok {
		return nil, domain.NewError(domain.ErrorKindConfiguration, p, fmt.Sprintf("no adapter registered for platform %q", p), nil)
	}
	return a, nil
}

// Platforms lists the registered platforms in name order
func (r *Registry) Platforms() []domain.Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]domain.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}
