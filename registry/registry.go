// Package registry implements named extension points: process-wide
// containers of self-describing implementations, resolvable by slug or
// type name, listable as ordered choices, and filterable by runtime
// context.
//
// A Registry guards its implementation map and its cache with one lock, so
// a reader never observes a cached view computed against a map state a
// writer has already superseded. Registration is a two-stage admission:
// validate, then build the stored record; both stages are overridable
// through Hooks. Lifecycle transitions fire the package-level signals
// synchronously.
package registry

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/OmenApps/stratagem/condition"
	"github.com/OmenApps/stratagem/config"
	"github.com/OmenApps/stratagem/internal/cachemanager"
	"github.com/OmenApps/stratagem/internal/log"
	"github.com/OmenApps/stratagem/pubsub"
)

const (
	cacheChoices     = "choices"
	cacheItems       = "items"
	cacheLastUpdated = "last_updated"
)

// Options configures a registry at construction time.
type Options struct {
	// Contract is the interface every implementation must satisfy.
	// Nil means no capability requirement. Must be an interface type;
	// use Contract[T]() to build it.
	Contract reflect.Type

	// LabelFrom overrides label derivation for choice lists.
	LabelFrom func(rec Record) string

	// CacheTTL overrides the configured cache expiration.
	CacheTTL time.Duration

	// Hooks customizes the admission pipeline.
	Hooks Hooks
}

// Registry is a named, process-wide container of implementations.
type Registry struct {
	name      string
	contract  reflect.Type
	labelFrom func(rec Record) string
	hooks     Hooks

	mu      sync.RWMutex
	records map[string]*Record

	choicesCache *cachemanager.Region[[]Choice]
	itemsCache   *cachemanager.Region[[]Item]
	metaCache    *cachemanager.Region[time.Time]

	invalidation []func() // extra cache listeners, e.g. hierarchy maps
}

// New creates a registry. The name must be non-empty and the contract, when
// given, must be an interface type.
func New(name string, opts Options) (*Registry, error) {
	if name == "" {
		return nil, &ConfigError{Component: "registry", Reason: "registry name cannot be empty"}
	}
	if opts.Contract != nil && opts.Contract.Kind() != reflect.Interface {
		return nil, &ConfigError{
			Component: "registry " + name,
			Reason:    fmt.Sprintf("contract must be an interface type, got %s", opts.Contract.Kind()),
		}
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = config.CacheTTL()
	}

	return &Registry{
		name:         name,
		contract:     opts.Contract,
		labelFrom:    opts.LabelFrom,
		hooks:        opts.Hooks,
		records:      make(map[string]*Record),
		choicesCache: cachemanager.NewRegion[[]Choice](name, ttl),
		itemsCache:   cachemanager.NewRegion[[]Item](name, ttl),
		metaCache:    cachemanager.NewRegion[time.Time](name, ttl),
	}, nil
}

// MustNew is New, panicking on error. For package-level registry variables.
func MustNew(name string, opts Options) *Registry {
	r, err := New(name, opts)
	if err != nil {
		panic(err)
	}
	return r
}

// Name returns the registry's stable name.
func (r *Registry) Name() string {
	return r.name
}

// Contract returns the required capability interface, or nil.
func (r *Registry) Contract() reflect.Type {
	return r.contract
}

// Register admits an implementation: validate, build the record, store it
// under its slug, invalidate the cache, run the OnRegister hook, then fire
// the Registered signal, in that order. Registering an existing slug
// overwrites it (last write wins) to support hot reloads; replacing a
// different type logs a warning.
func (r *Registry) Register(impl Implementation) error {
	if err := r.hooks.validate(r, impl); err != nil {
		log.ErrorErr(log.CatRegistry, "implementation rejected", err, "registry", r.name, "slug", impl.Slug)
		return err
	}

	rec, err := r.hooks.buildRecord(r, impl)
	if err != nil {
		log.ErrorErr(log.CatRegistry, "building record failed", err, "registry", r.name, "slug", impl.Slug)
		return err
	}

	r.mu.Lock()
	for slug, existing := range r.records {
		if slug != impl.Slug && existing.Type == rec.Type {
			r.mu.Unlock()
			return &ValidationError{
				Registry: r.name,
				Slug:     impl.Slug,
				Reason:   fmt.Sprintf("type %s already registered under slug %q", rec.TypeName(), slug),
			}
		}
	}
	if existing, ok := r.records[impl.Slug]; ok && existing.Type != rec.Type {
		log.Warn(log.CatRegistry, "overwriting slug",
			"registry", r.name, "slug", impl.Slug,
			"old", existing.TypeName(), "new", rec.TypeName())
	}
	r.records[impl.Slug] = &rec
	r.clearCacheLocked()
	r.mu.Unlock()

	r.hooks.onRegister(r, impl.Slug, rec)
	Registered.Send(pubsub.RegisteredEvent, RegisteredPayload{Registry: r, Slug: impl.Slug, Record: rec})
	log.Info(log.CatRegistry, "implementation registered", "registry", r.name, "slug", impl.Slug)
	return nil
}

// Unregister removes an implementation by slug: pop, invalidate the cache,
// run the OnUnregister hook, then fire the Unregistered signal, in that
// order. Returns ErrNotFound when the slug is absent.
func (r *Registry) Unregister(slug string) error {
	r.mu.Lock()
	rec, ok := r.records[slug]
	if !ok {
		r.mu.Unlock()
		log.Warn(log.CatRegistry, "attempted to unregister missing slug", "registry", r.name, "slug", slug)
		return notFound(r.name, fmt.Sprintf("slug %q", slug))
	}
	delete(r.records, slug)
	r.clearCacheLocked()
	r.mu.Unlock()

	r.hooks.onUnregister(r, slug, *rec)
	Unregistered.Send(pubsub.UnregisteredEvent, UnregisteredPayload{Registry: r, Slug: slug})
	log.Info(log.CatRegistry, "implementation unregistered", "registry", r.name, "slug", slug)
	return nil
}

// Resolve instantiates and returns the implementation registered under slug.
func (r *Registry) Resolve(slug string) (any, error) {
	rec, err := r.Record(slug)
	if err != nil {
		return nil, err
	}
	return rec.New(), nil
}

// ResolveName instantiates by fully qualified type name
// ("github.com/acme/billing.Invoice").
func (r *Registry) ResolveName(name string) (any, error) {
	rec, err := r.recordByTypeName(name)
	if err != nil {
		return nil, err
	}
	return rec.New(), nil
}

// ResolveOrDefault resolves slug, falling back to the fallback slug, and
// returns nil when neither is registered. It never fails.
func (r *Registry) ResolveOrDefault(slug, fallback string) any {
	if instance, err := r.Resolve(slug); err == nil {
		return instance
	}
	if fallback == "" {
		return nil
	}
	instance, err := r.Resolve(fallback)
	if err != nil {
		return nil
	}
	return instance
}

// ResolveClass returns the registered concrete type without instantiating.
func (r *Registry) ResolveClass(slug string) (reflect.Type, error) {
	rec, err := r.Record(slug)
	if err != nil {
		return nil, err
	}
	return rec.Type, nil
}

// ResolveClassName returns the concrete type by fully qualified type name.
func (r *Registry) ResolveClassName(name string) (reflect.Type, error) {
	rec, err := r.recordByTypeName(name)
	if err != nil {
		return nil, err
	}
	return rec.Type, nil
}

// Record returns a copy of the stored record for a slug.
func (r *Registry) Record(slug string) (Record, error) {
	r.mu.RLock()
	rec, ok := r.records[slug]
	r.mu.RUnlock()
	if !ok {
		log.Error(log.CatRegistry, "requested slug not found", "registry", r.name, "slug", slug)
		return Record{}, notFound(r.name, fmt.Sprintf("slug %q", slug))
	}
	return rec.clone(), nil
}

func (r *Registry) recordByTypeName(name string) (Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.TypeName() == name {
			return rec.clone(), nil
		}
	}
	log.Error(log.CatRegistry, "requested type name not found", "registry", r.name, "name", name)
	return Record{}, notFound(r.name, fmt.Sprintf("type name %q", name))
}

// Contains reports whether a slug is registered.
func (r *Registry) Contains(slug string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[slug]
	return ok
}

// IsValid reports whether a value corresponds to a registered
// implementation: a slug or fully qualified type name, a reflect.Type, or
// an instance of a registered type.
func (r *Registry) IsValid(value any) bool {
	switch v := value.(type) {
	case string:
		if r.Contains(v) {
			return true
		}
		_, err := r.recordByTypeName(v)
		return err == nil
	case reflect.Type:
		return r.containsType(v)
	default:
		if value == nil {
			return false
		}
		return r.containsType(reflect.TypeOf(value))
	}
}

func (r *Registry) containsType(t reflect.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Type == t {
			return true
		}
	}
	return false
}

// Len returns the number of registered implementations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Slugs returns every registered slug, unordered.
func (r *Registry) Slugs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slugs := make([]string, 0, len(r.records))
	for slug := range r.records {
		slugs = append(slugs, slug)
	}
	return slugs
}

// Health reports basic metrics for monitoring.
type Health struct {
	Count       int
	LastUpdated time.Time
}

// CheckHealth returns the implementation count and when a cached view was
// last rebuilt. LastUpdated is zero before the first cached read.
func (r *Registry) CheckHealth() Health {
	lastUpdated, _ := r.metaCache.Get(cacheLastUpdated)
	return Health{Count: r.Len(), LastUpdated: lastUpdated}
}

// ClearCache evicts every cached view for this registry.
func (r *Registry) ClearCache() {
	r.mu.Lock()
	r.clearCacheLocked()
	r.mu.Unlock()
}

// Reset removes every implementation and cached view. Intended for tests
// and full reloads.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.records = make(map[string]*Record)
	r.clearCacheLocked()
	r.mu.Unlock()
}

// OnCacheInvalidate registers a listener run whenever this registry's cache
// is cleared. Used by hierarchy maps that must stay coherent with the
// child registry.
func (r *Registry) OnCacheInvalidate(fn func()) {
	r.mu.Lock()
	r.invalidation = append(r.invalidation, fn)
	r.mu.Unlock()
}

func (r *Registry) clearCacheLocked() {
	r.choicesCache.Delete(cacheChoices)
	r.itemsCache.Delete(cacheItems)
	r.metaCache.Delete(cacheLastUpdated)
	for _, fn := range r.invalidation {
		fn()
	}
	log.Debug(log.CatCache, "cache cleared", "registry", r.name)
}

// snapshot returns the records under the read lock, for cache population.
func (r *Registry) snapshot() []*Record {
	recs := make([]*Record, 0, len(r.records))
	for _, rec := range r.records {
		recs = append(recs, rec)
	}
	return recs
}

// available filters records by availability condition under an already-held
// read lock. A nil context includes everything.
func availableOf(recs []*Record, ctx condition.Context) []*Record {
	if ctx == nil {
		return recs
	}
	out := make([]*Record, 0, len(recs))
	for _, rec := range recs {
		if rec.Availability != nil && !rec.Availability.Met(ctx) {
			continue
		}
		out = append(out, rec)
	}
	return out
}
