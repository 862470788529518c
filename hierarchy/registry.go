package hierarchy

import (
	"fmt"
	"sync"

	"github.com/OmenApps/stratagem/condition"
	"github.com/OmenApps/stratagem/config"
	"github.com/OmenApps/stratagem/internal/cachemanager"
	"github.com/OmenApps/stratagem/registry"
)

const cacheMap = "map"

// Registry pairs a child registry with its parent and answers
// parent-scoped questions: which child implementations are valid under a
// given parent slug, and for a given context.
type Registry struct {
	child  *registry.Registry
	parent *registry.Registry

	// mapMu guards the cached map together with gen. gen is bumped by
	// every invalidation, so a Map() computation that raced with a
	// mutation can detect it and discard its result instead of writing
	// a superseded view back into the cache. mapMu is never held while
	// reading the underlying registries, or the invalidation listener
	// (which runs under their write locks) could deadlock against it.
	mapMu    sync.Mutex
	gen      uint64
	mapCache *cachemanager.Region[map[string][]string]
}

// New links child under parent in the graph and returns the hierarchical
// view. The cached parent-to-children map is invalidated whenever either
// registry's cache clears.
func New(parent, child *registry.Registry, links *Relationships) (*Registry, error) {
	if links == nil {
		links = Default
	}
	if err := links.RegisterLink(parent, child); err != nil {
		return nil, err
	}

	h := &Registry{
		child:    child,
		parent:   parent,
		mapCache: cachemanager.NewRegion[map[string][]string](child.Name()+":hierarchy", config.CacheTTL()),
	}
	invalidate := func() {
		h.mapMu.Lock()
		h.gen++
		h.mapCache.Delete(cacheMap)
		h.mapMu.Unlock()
	}
	child.OnCacheInvalidate(invalidate)
	parent.OnCacheInvalidate(invalidate)
	return h, nil
}

// Child returns the wrapped child registry.
func (h *Registry) Child() *registry.Registry {
	return h.child
}

// Parent returns the parent registry.
func (h *Registry) Parent() *registry.Registry {
	return h.parent
}

// ChildrenFor returns the child records valid under parentSlug and
// available for ctx, in choice order. An implementation with no declared
// parent constraint is valid under every parent; a nil ctx skips
// availability filtering.
func (h *Registry) ChildrenFor(parentSlug string, ctx condition.Context) []registry.Item {
	var out []registry.Item
	for _, item := range h.child.Items() {
		if !item.Record.ValidForParent(parentSlug) {
			continue
		}
		if ctx != nil && item.Record.Availability != nil && !item.Record.Availability.Met(ctx) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ChoicesFor returns (slug, label) pairs for the children valid under
// parentSlug and available for ctx, in choice order.
func (h *Registry) ChoicesFor(parentSlug string, ctx condition.Context) []registry.Choice {
	valid := make(map[string]bool)
	for _, item := range h.ChildrenFor(parentSlug, ctx) {
		valid[item.Slug] = true
	}
	var out []registry.Choice
	for _, choice := range h.child.Choices() {
		if valid[choice.Slug] {
			out = append(out, choice)
		}
	}
	return out
}

// ValidateRelationship verifies that parentSlug exists in the parent
// registry, childSlug exists in the child registry, and the child declares
// itself valid under that parent. Unknown slugs wrap ErrNotFound; a
// declared-invalid pairing is a ValidationError.
func (h *Registry) ValidateRelationship(parentSlug, childSlug string) error {
	if _, err := h.parent.Record(parentSlug); err != nil {
		return err
	}
	rec, err := h.child.Record(childSlug)
	if err != nil {
		return err
	}
	if !rec.ValidForParent(parentSlug) {
		return &registry.ValidationError{
			Registry: h.child.Name(),
			Slug:     childSlug,
			Reason:   fmt.Sprintf("not valid under parent %q", parentSlug),
		}
	}
	return nil
}

// Map returns parent slug -> ordered valid child slugs, covering every
// registered parent. Cached until either registry changes. A mutation that
// lands while the view is being computed invalidates the in-flight result,
// so the cache never holds a view a writer has already superseded.
func (h *Registry) Map() map[string][]string {
	h.mapMu.Lock()
	if cached, ok := h.mapCache.Get(cacheMap); ok {
		h.mapMu.Unlock()
		return cached
	}
	started := h.gen
	h.mapMu.Unlock()

	out := make(map[string][]string)
	children := h.child.Items()
	for _, parent := range h.parent.Choices() {
		slugs := make([]string, 0, len(children))
		for _, item := range children {
			if item.Record.ValidForParent(parent.Slug) {
				slugs = append(slugs, item.Slug)
			}
		}
		out[parent.Slug] = slugs
	}

	h.mapMu.Lock()
	if h.gen == started {
		h.mapCache.Set(cacheMap, out)
	}
	h.mapMu.Unlock()
	return out
}
