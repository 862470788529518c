package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/OmenApps/stratagem/condition"
	"github.com/OmenApps/stratagem/internal/log"
)

// Choice is a slug plus human-readable label, ordered for selection UIs.
type Choice struct {
	Slug  string
	Label string
}

// Item pairs a slug with its full record, in choice order.
type Item struct {
	Slug   string
	Record Record
}

// Choices returns every registered implementation as ordered (slug, label)
// pairs: ascending priority, ties broken by slug. The result is cached
// until the registry changes or the TTL expires.
func (r *Registry) Choices() []Choice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cached, ok := r.choicesCache.Get(cacheChoices); ok {
		return cached
	}

	recs := r.sortedLocked()
	choices := make([]Choice, 0, len(recs))
	for _, rec := range recs {
		choices = append(choices, Choice{Slug: rec.Slug, Label: r.displayName(*rec)})
	}

	r.choicesCache.Set(cacheChoices, choices)
	r.metaCache.Set(cacheLastUpdated, time.Now())
	log.Debug(log.CatCache, "choices rebuilt", "registry", r.name, "count", len(choices))
	return choices
}

// Items returns every registered implementation with its record, in the
// same order as Choices. Cached like Choices.
func (r *Registry) Items() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cached, ok := r.itemsCache.Get(cacheItems); ok {
		return cloneItems(cached)
	}

	recs := r.sortedLocked()
	items := make([]Item, 0, len(recs))
	for _, rec := range recs {
		items = append(items, Item{Slug: rec.Slug, Record: *rec})
	}

	r.itemsCache.Set(cacheItems, items)
	r.metaCache.Set(cacheLastUpdated, time.Now())
	return cloneItems(items)
}

// cloneItems detaches record metadata from the cached slice so callers
// cannot mutate registry-owned state through the returned items.
func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{Slug: item.Slug, Record: item.Record.clone()}
	}
	return out
}

// Available returns the records whose availability condition passes for
// ctx, keyed by slug. Records with no condition are always included; a nil
// ctx includes everything.
func (r *Registry) Available(ctx condition.Context) map[string]Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Record)
	for _, rec := range availableOf(r.snapshot(), ctx) {
		out[rec.Slug] = rec.clone()
	}
	return out
}

// ChoicesFor returns ordered choices filtered by availability for ctx.
// Not cached; availability depends on the caller's context.
func (r *Registry) ChoicesFor(ctx condition.Context) []Choice {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := availableOf(r.sortedLocked(), ctx)
	choices := make([]Choice, 0, len(recs))
	for _, rec := range recs {
		choices = append(choices, Choice{Slug: rec.Slug, Label: r.displayName(*rec)})
	}
	return choices
}

// ResolveFor instantiates the implementation under slug when it is
// available for ctx. Otherwise it tries the fallback slug, then the first
// available choice, and finally returns ErrNotFound.
func (r *Registry) ResolveFor(ctx condition.Context, slug, fallback string) (any, error) {
	for _, candidate := range []string{slug, fallback} {
		if candidate == "" {
			continue
		}
		rec, err := r.Record(candidate)
		if err != nil {
			continue
		}
		if ctx == nil || rec.Availability == nil || rec.Availability.Met(ctx) {
			return rec.New(), nil
		}
		log.Debug(log.CatRegistry, "slug unavailable for context", "registry", r.name, "slug", candidate)
	}

	for _, choice := range r.ChoicesFor(ctx) {
		rec, err := r.Record(choice.Slug)
		if err != nil {
			continue
		}
		return rec.New(), nil
	}

	return nil, notFound(r.name, fmt.Sprintf("available implementation for slug %q", slug))
}

// sortedLocked returns records in choice order under an already-held lock.
func (r *Registry) sortedLocked() []*Record {
	recs := r.snapshot()
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Priority != recs[j].Priority {
			return recs[i].Priority < recs[j].Priority
		}
		return recs[i].Slug < recs[j].Slug
	})
	return recs
}
