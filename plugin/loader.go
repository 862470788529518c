package plugin

import (
	"context"
	"fmt"

	"github.com/OmenApps/stratagem/internal/log"
	"github.com/OmenApps/stratagem/registry"
)

// ImportError reports a plugin reference that could not be turned into a
// registered implementation. It wraps the underlying cause when one exists.
type ImportError struct {
	Plugin string
	Ref    string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("plugin %q: reference %q not found in catalog", e.Plugin, e.Ref)
	}
	return fmt.Sprintf("plugin %q: loading %q: %v", e.Plugin, e.Ref, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Policy filters plugins by name. A non-empty allow-list is authoritative
// and the deny-list is ignored; otherwise any plugin not denied loads. The
// zero value allows everything.
type Policy struct {
	Enabled  []string
	Disabled []string
}

// Allows reports whether the named plugin should load.
func (p Policy) Allows(name string) bool {
	if len(p.Enabled) > 0 {
		for _, n := range p.Enabled {
			if n == name {
				return true
			}
		}
		return false
	}
	for _, n := range p.Disabled {
		if n == name {
			return false
		}
	}
	return true
}

// Failure records one reference that did not load.
type Failure struct {
	Plugin string
	Ref    string
	Err    error
}

// Report summarizes a LoadInto pass. Failures never abort sibling
// references or sibling plugins.
type Report struct {
	Loaded   []string
	Skipped  []string
	Failures []Failure
}

// Loader merges descriptors from its sources and registers their
// implementations into target registries.
type Loader struct {
	Sources []Source
	Catalog *Catalog
	Policy  Policy
}

// Discover collects descriptors from every source. A failing source is
// logged and skipped; the remaining sources still contribute.
func (l *Loader) Discover(ctx context.Context) []Descriptor {
	var out []Descriptor
	for _, source := range l.Sources {
		descs, err := source.Discover(ctx)
		if err != nil {
			log.ErrorErr(log.CatPlugin, "plugin source failed", err)
			continue
		}
		out = append(out, descs...)
	}
	return out
}

// LoadInto registers every allowed descriptor reference targeting reg into
// it. Unknown catalog references and validation rejections are collected
// as failures; each failure is isolated to its reference.
func (l *Loader) LoadInto(ctx context.Context, reg *registry.Registry) Report {
	var report Report
	catalog := l.Catalog
	if catalog == nil {
		catalog = DefaultCatalog
	}

	for _, desc := range l.Discover(ctx) {
		if desc.Registry != reg.Name() {
			continue
		}
		if !l.Policy.Allows(desc.Name) {
			report.Skipped = append(report.Skipped, desc.Name)
			log.Debug(log.CatPlugin, "plugin skipped by policy", "plugin", desc.Name)
			continue
		}

		for _, ref := range desc.Implementations {
			impl, ok := catalog.Lookup(ref)
			if !ok {
				err := &ImportError{Plugin: desc.Name, Ref: ref}
				report.Failures = append(report.Failures, Failure{Plugin: desc.Name, Ref: ref, Err: err})
				log.ErrorErr(log.CatPlugin, "plugin reference failed", err, "plugin", desc.Name, "ref", ref)
				continue
			}
			if err := reg.Register(impl); err != nil {
				wrapped := &ImportError{Plugin: desc.Name, Ref: ref, Err: err}
				report.Failures = append(report.Failures, Failure{Plugin: desc.Name, Ref: ref, Err: wrapped})
				log.ErrorErr(log.CatPlugin, "plugin registration rejected", wrapped, "plugin", desc.Name, "ref", ref)
				continue
			}
			report.Loaded = append(report.Loaded, ref)
		}
	}

	log.Info(log.CatPlugin, "plugins merged",
		"registry", reg.Name(),
		"loaded", len(report.Loaded),
		"skipped", len(report.Skipped),
		"failed", len(report.Failures))
	return report
}
