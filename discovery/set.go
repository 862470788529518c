// Package discovery coordinates the registry population lifecycle: the
// ordered set of registries a process knows about, the module hooks that
// fill them, plugin merging, and the startup consistency checks.
package discovery

import (
	"sync"

	"github.com/OmenApps/stratagem/registry"
)

// Set is an ordered collection of registries keyed by unique name. The
// orchestrator reloads them in insertion order so dependents can rely on
// their parents being populated first.
type Set struct {
	mu      sync.RWMutex
	ordered []*registry.Registry
	byName  map[string]*registry.Registry
}

// NewSet creates an empty registry set.
func NewSet() *Set {
	return &Set{byName: make(map[string]*registry.Registry)}
}

// Add appends a registry to the set. A name collision is an error.
func (s *Set) Add(r *registry.Registry) error {
	if r == nil {
		return &registry.ConfigError{Component: "discovery set", Reason: "cannot add a nil registry"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byName[r.Name()]; ok {
		return &registry.ConfigError{
			Component: "discovery set",
			Reason:    "registry " + r.Name() + " already in set",
		}
	}
	s.byName[r.Name()] = r
	s.ordered = append(s.ordered, r)
	return nil
}

// Get returns the registry with the given name.
func (s *Set) Get(name string) (*registry.Registry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.byName[name]
	return r, ok
}

// All returns the registries in insertion order.
func (s *Set) All() []*registry.Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*registry.Registry, len(s.ordered))
	copy(out, s.ordered)
	return out
}

// Len returns the number of registries in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ordered)
}

// Reset empties the set. Intended for tests.
func (s *Set) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ordered = nil
	s.byName = make(map[string]*registry.Registry)
}
