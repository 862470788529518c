package registry

import (
	"fmt"
	"reflect"
	"time"
)

// Hooks customizes the admission pipeline. Nil fields keep the default
// behavior. A hook that wants to extend rather than replace a default must
// call DefaultValidate or DefaultRecord itself first.
type Hooks struct {
	// Validate runs before anything is stored. Returning an error aborts
	// registration with no state change and no notification.
	Validate func(r *Registry, impl Implementation) error

	// BuildRecord derives the stored record from a validated
	// implementation.
	BuildRecord func(r *Registry, impl Implementation) (Record, error)

	// OnRegister runs after the record is stored and the cache cleared,
	// before the registered signal fires.
	OnRegister func(r *Registry, slug string, rec Record)

	// OnUnregister runs after the record is removed and the cache
	// cleared, before the unregistered signal fires.
	OnUnregister func(r *Registry, slug string, rec Record)
}

// DefaultValidate is the stock admission check: the implementation must
// carry a non-empty slug and a factory, the factory must produce a non-nil
// instance, and the instance must satisfy the registry's contract when one
// is declared.
func DefaultValidate(r *Registry, impl Implementation) error {
	if impl.Slug == "" {
		return &ValidationError{Registry: r.name, Reason: "implementation must define a non-empty slug"}
	}
	if impl.New == nil {
		return &ValidationError{Registry: r.name, Slug: impl.Slug, Reason: ErrNilFactory.Error()}
	}

	prototype := impl.New()
	if prototype == nil {
		return &ValidationError{Registry: r.name, Slug: impl.Slug, Reason: "factory returned nil"}
	}

	if r.contract != nil {
		t := reflect.TypeOf(prototype)
		if !t.Implements(r.contract) {
			return &ValidationError{
				Registry: r.name,
				Slug:     impl.Slug,
				Reason:   fmt.Sprintf("%s does not implement %s", typeName(t), r.contract.Name()),
			}
		}
	}
	return nil
}

// DefaultRecord builds the stored record: the implementation as submitted
// plus its reflected concrete type and the registration time. Absent
// metadata keeps its zero value (empty description and icon, priority 0).
func DefaultRecord(r *Registry, impl Implementation) (Record, error) {
	prototype := impl.New()
	if prototype == nil {
		return Record{}, &ValidationError{Registry: r.name, Slug: impl.Slug, Reason: "factory returned nil"}
	}
	return Record{
		Implementation: impl,
		Type:           reflect.TypeOf(prototype),
		RegisteredAt:   time.Now(),
	}, nil
}

func (h Hooks) validate(r *Registry, impl Implementation) error {
	if h.Validate != nil {
		return h.Validate(r, impl)
	}
	return DefaultValidate(r, impl)
}

func (h Hooks) buildRecord(r *Registry, impl Implementation) (Record, error) {
	if h.BuildRecord != nil {
		return h.BuildRecord(r, impl)
	}
	return DefaultRecord(r, impl)
}

func (h Hooks) onRegister(r *Registry, slug string, rec Record) {
	if h.OnRegister != nil {
		h.OnRegister(r, slug, rec)
	}
}

func (h Hooks) onUnregister(r *Registry, slug string, rec Record) {
	if h.OnUnregister != nil {
		h.OnUnregister(r, slug, rec)
	}
}
