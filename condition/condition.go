// Package condition implements composable availability predicates for
// registry implementations.
//
// A Condition is an immutable predicate over a Context (arbitrary key/value
// pairs supplied at query time). Leaf conditions check one fact (a
// permission, a feature flag, a time window); compound conditions combine
// children with AND/OR/NOT. Trees are built once and never mutated, and
// evaluation is side-effect-free.
package condition

import (
	"strings"

	"github.com/OmenApps/stratagem/internal/log"
)

// Condition is a predicate over a query context.
type Condition interface {
	// Met reports whether the condition holds for the given context.
	Met(ctx Context) bool

	// Explain returns a human-readable description of the condition.
	Explain() string
}

// detailsChecker is implemented by conditions that can explain their result.
type detailsChecker interface {
	CheckWithDetails(ctx Context) (bool, string)
}

// CheckWithDetails evaluates a condition and returns the result alongside a
// human-readable explanation, for diagnosing why an implementation was
// filtered. Compound conditions report every branch.
func CheckWithDetails(c Condition, ctx Context) (bool, string) {
	if dc, ok := c.(detailsChecker); ok {
		return dc.CheckWithDetails(ctx)
	}
	result := c.Met(ctx)
	status := "passed"
	if !result {
		status = "failed"
	}
	explanation := c.Explain() + " -> " + status
	log.Debug(log.CatCondition, "condition check", "result", explanation)
	return result, explanation
}

// allOf is true iff every child is true. Short-circuits on the first false.
type allOf struct {
	children []Condition
}

// AllOf combines conditions with AND logic.
func AllOf(children ...Condition) Condition {
	return allOf{children: children}
}

// And is the combinator form of AllOf.
func And(first Condition, rest ...Condition) Condition {
	return AllOf(append([]Condition{first}, rest...)...)
}

func (c allOf) Met(ctx Context) bool {
	for _, child := range c.children {
		if !child.Met(ctx) {
			return false
		}
	}
	return true
}

func (c allOf) Explain() string {
	return "(" + joinExplains(c.children, " AND ") + ")"
}

func (c allOf) CheckWithDetails(ctx Context) (bool, string) {
	details := make([]string, 0, len(c.children))
	allMet := true
	for _, child := range c.children {
		result, detail := CheckWithDetails(child, ctx)
		details = append(details, detail)
		if !result {
			allMet = false
		}
	}
	return allMet, compoundDetail("AllOf", allMet, details)
}

// anyOf is true iff at least one child is true. Short-circuits on the first true.
type anyOf struct {
	children []Condition
}

// AnyOf combines conditions with OR logic.
func AnyOf(children ...Condition) Condition {
	return anyOf{children: children}
}

// Or is the combinator form of AnyOf.
func Or(first Condition, rest ...Condition) Condition {
	return AnyOf(append([]Condition{first}, rest...)...)
}

func (c anyOf) Met(ctx Context) bool {
	for _, child := range c.children {
		if child.Met(ctx) {
			return true
		}
	}
	return false
}

func (c anyOf) Explain() string {
	return "(" + joinExplains(c.children, " OR ") + ")"
}

func (c anyOf) CheckWithDetails(ctx Context) (bool, string) {
	details := make([]string, 0, len(c.children))
	anyMet := false
	for _, child := range c.children {
		result, detail := CheckWithDetails(child, ctx)
		details = append(details, detail)
		if result {
			anyMet = true
		}
	}
	return anyMet, compoundDetail("AnyOf", anyMet, details)
}

// not negates its child.
type not struct {
	child Condition
}

// Not negates a condition.
func Not(child Condition) Condition {
	return not{child: child}
}

// Negate is an alias for Not, for symmetry with And and Or.
func Negate(child Condition) Condition {
	return Not(child)
}

func (c not) Met(ctx Context) bool {
	return !c.child.Met(ctx)
}

func (c not) Explain() string {
	return "NOT(" + c.child.Explain() + ")"
}

func (c not) CheckWithDetails(ctx Context) (bool, string) {
	innerResult, innerDetail := CheckWithDetails(c.child, ctx)
	result := !innerResult
	return result, compoundDetail("Not", result, []string{innerDetail})
}

func joinExplains(children []Condition, sep string) string {
	parts := make([]string, len(children))
	for i, child := range children {
		parts[i] = child.Explain()
	}
	return strings.Join(parts, sep)
}

func compoundDetail(name string, met bool, details []string) string {
	status := "passed"
	if !met {
		status = "failed"
	}
	detail := name + "(" + status + "): [" + strings.Join(details, ", ") + "]"
	log.Debug(log.CatCondition, "condition check", "result", detail)
	return detail
}
