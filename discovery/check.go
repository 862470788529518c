package discovery

import (
	"context"
	"fmt"

	"github.com/OmenApps/stratagem/hierarchy"
	"github.com/OmenApps/stratagem/plugin"
	"github.com/OmenApps/stratagem/registry"
)

// Check validates structural consistency at startup: every hierarchy link
// must connect registries present in the set, and every discovered plugin
// must target a known registry and name only known catalog references.
// It returns every problem found rather than stopping at the first.
func (o *Orchestrator) Check(ctx context.Context, links *hierarchy.Relationships) []*registry.ConfigError {
	var problems []*registry.ConfigError

	if links != nil {
		for child, parent := range links.Links() {
			if _, ok := o.Set.Get(parent); !ok {
				problems = append(problems, &registry.ConfigError{
					Component: "hierarchy",
					Reason:    fmt.Sprintf("parent registry %q of %q is not in the discovery set", parent, child),
				})
			}
			if _, ok := o.Set.Get(child); !ok {
				problems = append(problems, &registry.ConfigError{
					Component: "hierarchy",
					Reason:    fmt.Sprintf("child registry %q is not in the discovery set", child),
				})
			}
		}
	}

	if o.Plugins != nil {
		catalog := o.Plugins.Catalog
		if catalog == nil {
			catalog = plugin.DefaultCatalog
		}
		for _, desc := range o.Plugins.Discover(ctx) {
			if _, ok := o.Set.Get(desc.Registry); !ok {
				problems = append(problems, &registry.ConfigError{
					Component: "plugin " + desc.Name,
					Reason:    fmt.Sprintf("targets unknown registry %q", desc.Registry),
				})
			}
			for _, ref := range desc.Implementations {
				if _, ok := catalog.Lookup(ref); !ok {
					problems = append(problems, &registry.ConfigError{
						Component: "plugin " + desc.Name,
						Reason:    fmt.Sprintf("reference %q is not in the catalog", ref),
					})
				}
			}
		}
	}

	return problems
}
