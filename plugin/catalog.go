package plugin

import (
	"fmt"
	"sync"

	"github.com/OmenApps/stratagem/registry"
)

// Catalog maps descriptor references to implementations. It is the loader
// boundary: a descriptor can only name things a plugin author has
// explicitly put in a catalog, never trigger arbitrary code loading.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]registry.Implementation
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]registry.Implementation)}
}

// DefaultCatalog is the process-wide catalog; plugin packages register
// into it from init or setup code.
var DefaultCatalog = NewCatalog()

// Register stores an implementation under a reference, usually
// "<plugin>/<slug>". Re-registering a taken reference is an error.
func (c *Catalog) Register(ref string, impl registry.Implementation) error {
	if ref == "" {
		return fmt.Errorf("catalog reference cannot be empty")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[ref]; ok {
		return fmt.Errorf("catalog reference %q already registered", ref)
	}
	c.entries[ref] = impl
	return nil
}

// Lookup returns the implementation registered under ref.
func (c *Catalog) Lookup(ref string) (registry.Implementation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	impl, ok := c.entries[ref]
	return impl, ok
}

// Refs returns every registered reference, unordered.
func (c *Catalog) Refs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	refs := make([]string, 0, len(c.entries))
	for ref := range c.entries {
		refs = append(refs, ref)
	}
	return refs
}

// Reset drops every entry. Intended for tests.
func (c *Catalog) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]registry.Implementation)
}
