package registry

import (
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/OmenApps/stratagem/condition"
)

// Implementation is the unit of registration: a no-argument factory plus
// the metadata describing it. The factory stands in for "the type"; it must
// return a new instance on every call.
type Implementation struct {
	// Slug is the unique-within-registry identifier. Required.
	Slug string

	// New constructs an instance. Required. Must not return nil.
	New func() any

	// Description is a human description of the implementation.
	Description string

	// Icon is an optional icon token for UI adapters.
	Icon string

	// Priority orders choice lists; lower sorts first, ties break by slug.
	Priority int

	// DisplayName overrides the derived label when non-empty.
	DisplayName string

	// Availability gates the implementation by runtime context.
	// Nil means always available.
	Availability condition.Condition

	// ParentSlugs restricts which parent implementations this entry is
	// valid under in a hierarchical registry. Nil or empty means valid
	// under every parent.
	ParentSlugs []string

	// Extra is an open extension map for host-contributed metadata.
	Extra map[string]any
}

// ValidForParent reports whether this implementation may appear under the
// given parent slug. No declared constraint means valid under every parent.
func (i Implementation) ValidForParent(parentSlug string) bool {
	if len(i.ParentSlugs) == 0 {
		return true
	}
	for _, slug := range i.ParentSlugs {
		if slug == parentSlug {
			return true
		}
	}
	return false
}

// Record is the stored form of a registered implementation: the submitted
// metadata plus what admission derived from it. Records are owned by their
// registry; public accessors return copies.
type Record struct {
	Implementation

	// Type is the concrete type produced by the factory.
	Type reflect.Type

	// RegisteredAt is when admission stored the record.
	RegisteredAt time.Time
}

// clone returns a copy that shares no mutable state with the stored
// record, so callers cannot reach back into registry-owned metadata.
func (r Record) clone() Record {
	out := r
	out.Extra = maps.Clone(r.Extra)
	out.ParentSlugs = slices.Clone(r.ParentSlugs)
	return out
}

// TypeName returns the fully qualified name of the concrete type, with any
// pointer indirection stripped: "github.com/acme/billing.Invoice".
func (r Record) TypeName() string {
	return typeName(r.Type)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Contract returns the reflect.Type of an interface, for use as a
// registry's required capability set:
//
//	registry.New("shapes", registry.Options{Contract: registry.Contract[Shape]()})
func Contract[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
