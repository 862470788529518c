package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/OmenApps/stratagem/registry"
)

type fixedPrice struct{}

func (fixedPrice) Kind() string { return "fixed_price" }

type timeAndMaterials struct{}

func (timeAndMaterials) Kind() string { return "time_and_materials" }

type milestone struct{}

func (milestone) Bill() string { return "milestone" }

type hourlyBlock struct{}

func (hourlyBlock) Bill() string { return "hourly" }

type retainer struct{}

func (retainer) Bill() string { return "retainer" }

func newRegistry(t *testing.T, name string) *registry.Registry {
	t.Helper()
	r, err := registry.New(name, registry.Options{})
	require.NoError(t, err)
	return r
}

// contractFixture builds a parent registry of contract types and a child
// registry of billing items constrained to specific parents.
func contractFixture(t *testing.T, prefix string) (*Registry, *registry.Registry, *registry.Registry) {
	t.Helper()

	parent := newRegistry(t, prefix+"-contracts")
	child := newRegistry(t, prefix+"-billing-items")

	require.NoError(t, parent.Register(registry.Implementation{
		Slug: "fixed_price", New: func() any { return fixedPrice{} },
	}))
	require.NoError(t, parent.Register(registry.Implementation{
		Slug: "time_and_materials", New: func() any { return timeAndMaterials{} },
	}))

	require.NoError(t, child.Register(registry.Implementation{
		Slug:        "milestone",
		New:         func() any { return milestone{} },
		ParentSlugs: []string{"fixed_price"},
	}))
	require.NoError(t, child.Register(registry.Implementation{
		Slug:        "hourly",
		New:         func() any { return hourlyBlock{} },
		ParentSlugs: []string{"time_and_materials"},
	}))
	require.NoError(t, child.Register(registry.Implementation{
		Slug: "retainer",
		New:  func() any { return retainer{} },
	}))

	h, err := New(parent, child, NewRelationships())
	require.NoError(t, err)
	return h, parent, child
}

func TestRegisterLink(t *testing.T) {
	links := NewRelationships()
	parent := newRegistry(t, "link-parent")
	child := newRegistry(t, "link-child")

	require.NoError(t, links.RegisterLink(parent, child))

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, links.RegisterLink(parent, child))
		require.Len(t, links.ChildrenOf(parent.Name()), 1)
	})

	t.Run("relink to a different parent fails", func(t *testing.T) {
		other := newRegistry(t, "link-other")
		err := links.RegisterLink(other, child)
		var cfgErr *registry.ConfigError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("nil registries rejected", func(t *testing.T) {
		var cfgErr *registry.ConfigError
		require.ErrorAs(t, links.RegisterLink(nil, child), &cfgErr)
	})
}

func TestParentOf(t *testing.T) {
	links := NewRelationships()
	parent := newRegistry(t, "parentof-parent")
	child := newRegistry(t, "parentof-child")
	require.NoError(t, links.RegisterLink(parent, child))

	require.Equal(t, parent, links.ParentOf(child.Name()))
	require.Nil(t, links.ParentOf(parent.Name()))
}

func TestDescendantsOf(t *testing.T) {
	links := NewRelationships()
	root := newRegistry(t, "tree-root")
	mid := newRegistry(t, "tree-mid")
	leafA := newRegistry(t, "tree-leaf-a")
	leafB := newRegistry(t, "tree-leaf-b")

	require.NoError(t, links.RegisterLink(root, mid))
	require.NoError(t, links.RegisterLink(mid, leafA))
	require.NoError(t, links.RegisterLink(mid, leafB))

	descendants := links.DescendantsOf(root.Name())
	require.Len(t, descendants, 3)
	require.Equal(t, mid, descendants[0])
	require.ElementsMatch(t, []*registry.Registry{leafA, leafB}, descendants[1:])

	require.Empty(t, links.DescendantsOf(leafA.Name()))
	require.Empty(t, links.DescendantsOf("unknown"))
}

func TestChildrenFor(t *testing.T) {
	h, _, _ := contractFixture(t, "childrenfor")

	t.Run("constrained to declared parents", func(t *testing.T) {
		items := h.ChildrenFor("fixed_price", nil)
		slugs := make([]string, len(items))
		for i, item := range items {
			slugs[i] = item.Slug
		}
		// retainer declares no constraint, so it is valid everywhere
		require.ElementsMatch(t, []string{"milestone", "retainer"}, slugs)
	})

	t.Run("other parent", func(t *testing.T) {
		items := h.ChildrenFor("time_and_materials", nil)
		slugs := make([]string, len(items))
		for i, item := range items {
			slugs[i] = item.Slug
		}
		require.ElementsMatch(t, []string{"hourly", "retainer"}, slugs)
	})

	t.Run("unknown parent gets only unconstrained children", func(t *testing.T) {
		items := h.ChildrenFor("unknown", nil)
		require.Len(t, items, 1)
		require.Equal(t, "retainer", items[0].Slug)
	})
}

func TestHierarchyChoicesFor(t *testing.T) {
	h, _, _ := contractFixture(t, "choicesfor")

	choices := h.ChoicesFor("fixed_price", nil)
	slugs := make([]string, len(choices))
	for i, c := range choices {
		slugs[i] = c.Slug
	}
	require.ElementsMatch(t, []string{"milestone", "retainer"}, slugs)
}

func TestValidateRelationship(t *testing.T) {
	h, _, _ := contractFixture(t, "validate")

	require.NoError(t, h.ValidateRelationship("fixed_price", "milestone"))
	require.NoError(t, h.ValidateRelationship("fixed_price", "retainer"))

	t.Run("declared-invalid pairing", func(t *testing.T) {
		err := h.ValidateRelationship("fixed_price", "hourly")
		var vErr *registry.ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("unknown parent slug", func(t *testing.T) {
		require.ErrorIs(t, h.ValidateRelationship("missing", "milestone"), registry.ErrNotFound)
	})

	t.Run("unknown child slug", func(t *testing.T) {
		require.ErrorIs(t, h.ValidateRelationship("fixed_price", "missing"), registry.ErrNotFound)
	})
}

type lateFee struct{}

func (lateFee) Bill() string { return "late_fee" }

// TestMapDiscardsSupersededView forces a child mutation into the window
// between Map()'s snapshot of the registries and its cache write, via a
// parent label hook that runs mid-computation. The computed view predates
// the mutation and must not be cached.
func TestMapDiscardsSupersededView(t *testing.T) {
	var child *registry.Registry
	inject := false

	parent, err := registry.New("race-contracts", registry.Options{
		LabelFrom: func(rec registry.Record) string {
			if inject {
				inject = false
				require.NoError(t, child.Register(registry.Implementation{
					Slug: "late", New: func() any { return lateFee{} },
				}))
			}
			return ""
		},
	})
	require.NoError(t, err)

	child = newRegistry(t, "race-billing-items")
	require.NoError(t, parent.Register(registry.Implementation{
		Slug: "plan_a", New: func() any { return fixedPrice{} },
	}))
	require.NoError(t, child.Register(registry.Implementation{
		Slug: "x", New: func() any { return milestone{} },
	}))

	h, err := New(parent, child, NewRelationships())
	require.NoError(t, err)

	inject = true
	first := h.Map()

	// The in-flight view was computed before the mutation
	require.Equal(t, []string{"x"}, first["plan_a"])
	require.True(t, child.Contains("late"))

	// The next read must reflect the mutation, not the superseded view
	require.ElementsMatch(t, []string{"x", "late"}, h.Map()["plan_a"])
}

func TestMap(t *testing.T) {
	h, _, child := contractFixture(t, "map")

	m := h.Map()
	require.ElementsMatch(t, []string{"milestone", "retainer"}, m["fixed_price"])
	require.ElementsMatch(t, []string{"hourly", "retainer"}, m["time_and_materials"])

	t.Run("invalidated with the child registry", func(t *testing.T) {
		require.NoError(t, child.Unregister("retainer"))
		m := h.Map()
		require.ElementsMatch(t, []string{"milestone"}, m["fixed_price"])
	})
}
