// Package hierarchy relates registries to each other: a parent registry
// whose implementations group the implementations of a child registry.
// The link graph is structural metadata for navigation and startup checks;
// it never gates resolution.
package hierarchy

import (
	"fmt"
	"sync"

	"github.com/OmenApps/stratagem/internal/log"
	"github.com/OmenApps/stratagem/registry"
)

// Relationships is a link graph between registries, keyed by registry
// name. A child registry keeps at most one parent; a parent may have any
// number of children. The graph is cycle-safe to traverse.
type Relationships struct {
	mu       sync.RWMutex
	parents  map[string]string   // child name -> parent name
	children map[string][]string // parent name -> ordered child names
	byName   map[string]*registry.Registry
}

// NewRelationships creates an empty link graph.
func NewRelationships() *Relationships {
	return &Relationships{
		parents:  make(map[string]string),
		children: make(map[string][]string),
		byName:   make(map[string]*registry.Registry),
	}
}

// Default is the process-wide link graph used when no explicit graph is
// wired.
var Default = NewRelationships()

// RegisterLink records that child's implementations group under parent's.
// Re-registering the same pair is a no-op. Linking a child to a second,
// different parent is a configuration error.
func (l *Relationships) RegisterLink(parent, child *registry.Registry) error {
	if parent == nil || child == nil {
		return &registry.ConfigError{Component: "hierarchy", Reason: "parent and child registries must be non-nil"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.parents[child.Name()]; ok {
		if existing == parent.Name() {
			return nil
		}
		return &registry.ConfigError{
			Component: "hierarchy",
			Reason: fmt.Sprintf("registry %q is already a child of %q, cannot relink to %q",
				child.Name(), existing, parent.Name()),
		}
	}

	l.parents[child.Name()] = parent.Name()
	l.children[parent.Name()] = append(l.children[parent.Name()], child.Name())
	l.byName[parent.Name()] = parent
	l.byName[child.Name()] = child

	log.Info(log.CatHierarchy, "registries linked", "parent", parent.Name(), "child", child.Name())
	return nil
}

// ParentOf returns the parent registry of the named child, or nil when the
// child has no parent.
func (l *Relationships) ParentOf(childName string) *registry.Registry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	parentName, ok := l.parents[childName]
	if !ok {
		return nil
	}
	return l.byName[parentName]
}

// ChildrenOf returns the direct children of the named registry, in link
// order.
func (l *Relationships) ChildrenOf(parentName string) []*registry.Registry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := l.children[parentName]
	out := make([]*registry.Registry, 0, len(names))
	for _, name := range names {
		out = append(out, l.byName[name])
	}
	return out
}

// DescendantsOf returns every registry reachable below the named one,
// breadth-first and deduplicated.
func (l *Relationships) DescendantsOf(parentName string) []*registry.Registry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []*registry.Registry
	visited := map[string]bool{parentName: true}
	queue := append([]string(nil), l.children[parentName]...)

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true
		out = append(out, l.byName[name])
		queue = append(queue, l.children[name]...)
	}
	return out
}

// Links returns every (parent name, child name) pair, for startup checks.
func (l *Relationships) Links() map[string]string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]string, len(l.parents))
	for child, parent := range l.parents {
		out[child] = parent
	}
	return out
}

// Reset drops every link. Intended for tests.
func (l *Relationships) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.parents = make(map[string]string)
	l.children = make(map[string][]string)
	l.byName = make(map[string]*registry.Registry)
}
