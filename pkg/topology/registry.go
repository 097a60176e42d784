package topology

import (
	"fmt"
	"sort"
	"sync"

	"github.com/yairfalse/polmon/pkg/domain"
)

// Registry manages topology inferrers by name
type Registry struct {
	mu        sync.RWMutex
	inferrers map[string]domain.Inferrer
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		inferrers: make(map[string]domain.Inferrer),
	}
}

// Register adds an inferrer under its own name
func (r *Registry) Register(inferrer domain.Inferrer) error {
	if inferrer == nil {
		return fmt.Errorf("inferrer cannot be nil")
	}

	name := inferrer.Name()
	if name == "" {
		return fmt.Errorf("inferrer name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.inferrers[name]; exists {
		return fmt.Errorf("inferrer already registered: %s", name)
	}

	r.inferrers[name] = inferrer
	return nil
}

// Get returns the inferrer registered under name
func (r *Registry) Get(name string) (domain.Inferrer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inferrer, exists := r.inferrers[name]
	return inferrer, exists
}

// List returns all registered names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.inferrers))
	for name := range r.inferrers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
