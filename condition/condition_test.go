package condition

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// constant is a fixed-outcome condition for algebra tests.
type constant bool

func (c constant) Met(Context) bool { return bool(c) }

func (c constant) Explain() string {
	if c {
		return "true"
	}
	return "false"
}

func TestAllOf(t *testing.T) {
	t.Run("empty is vacuously true", func(t *testing.T) {
		require.True(t, AllOf().Met(nil))
	})

	t.Run("all true", func(t *testing.T) {
		require.True(t, AllOf(constant(true), constant(true)).Met(nil))
	})

	t.Run("one false fails", func(t *testing.T) {
		require.False(t, AllOf(constant(true), constant(false)).Met(nil))
	})
}

func TestAnyOf(t *testing.T) {
	t.Run("empty is false", func(t *testing.T) {
		require.False(t, AnyOf().Met(nil))
	})

	t.Run("one true passes", func(t *testing.T) {
		require.True(t, AnyOf(constant(false), constant(true)).Met(nil))
	})

	t.Run("all false fails", func(t *testing.T) {
		require.False(t, AnyOf(constant(false), constant(false)).Met(nil))
	})
}

func TestNot(t *testing.T) {
	require.False(t, Not(constant(true)).Met(nil))
	require.True(t, Not(constant(false)).Met(nil))
	require.True(t, Not(Not(constant(true))).Met(nil))
}

func TestCombinators(t *testing.T) {
	t.Run("and builds allOf tree", func(t *testing.T) {
		a, b := constant(true), constant(false)
		require.Equal(t, AllOf(a, b).Met(nil), And(a, b).Met(nil))
		require.Equal(t, AllOf(a, b).Explain(), And(a, b).Explain())
	})

	t.Run("or builds anyOf tree", func(t *testing.T) {
		a, b := constant(true), constant(false)
		require.Equal(t, AnyOf(a, b).Met(nil), Or(a, b).Met(nil))
		require.Equal(t, AnyOf(a, b).Explain(), Or(a, b).Explain())
	})

	t.Run("negate is not", func(t *testing.T) {
		require.Equal(t, Not(constant(true)).Met(nil), Negate(constant(true)).Met(nil))
	})
}

func TestExplain(t *testing.T) {
	explain := And(constant(true), Not(constant(false))).Explain()
	require.Equal(t, "(true AND NOT(false))", explain)
}

func TestCheckWithDetails(t *testing.T) {
	t.Run("leaf without details uses explain", func(t *testing.T) {
		met, detail := CheckWithDetails(constant(true), nil)
		require.True(t, met)
		require.Contains(t, detail, "true")
	})

	t.Run("compound reports every branch", func(t *testing.T) {
		met, detail := CheckWithDetails(AllOf(constant(true), constant(false)), nil)
		require.False(t, met)
		require.Contains(t, detail, "AllOf(failed)")
		require.True(t, strings.Contains(detail, "true") && strings.Contains(detail, "false"))
	})
}

// TestAlgebraProperties exercises boolean identities over random trees.
func TestAlgebraProperties(t *testing.T) {
	genBools := rapid.SliceOfN(rapid.Bool(), 1, 6)

	t.Run("de morgan", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			values := genBools.Draw(t, "values")
			children := make([]Condition, len(values))
			for i, v := range values {
				children[i] = constant(v)
			}
			negated := make([]Condition, len(values))
			for i, v := range values {
				negated[i] = Not(constant(v))
			}

			left := Not(AllOf(children...)).Met(nil)
			right := AnyOf(negated...).Met(nil)
			if left != right {
				t.Fatalf("NOT(AllOf) = %v, AnyOf(NOT) = %v", left, right)
			}
		})
	})

	t.Run("double negation", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			v := rapid.Bool().Draw(t, "v")
			if Not(Not(constant(v))).Met(nil) != v {
				t.Fatalf("double negation changed %v", v)
			}
		})
	})

	t.Run("short circuit never flips outcome", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			values := genBools.Draw(t, "values")
			children := make([]Condition, len(values))
			all := true
			any := false
			for i, v := range values {
				children[i] = constant(v)
				all = all && v
				any = any || v
			}
			if AllOf(children...).Met(nil) != all {
				t.Fatalf("AllOf mismatch for %v", values)
			}
			if AnyOf(children...).Met(nil) != any {
				t.Fatalf("AnyOf mismatch for %v", values)
			}
		})
	})
}
