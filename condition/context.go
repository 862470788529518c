package condition

import "time"

// Well-known context keys.
const (
	// KeyUser holds the acting User.
	KeyUser = "user"

	// KeyNow overrides the evaluation time (a time.Time). Absent, time
	// conditions read the wall clock in local time.
	KeyNow = "now"

	// KeyFlags holds a FlagService consulted by feature-flag conditions
	// after the static flag table.
	KeyFlags = "flags"
)

// Context carries the query-time facts conditions evaluate against.
// Conditions never mutate it.
type Context map[string]any

// User is the minimal identity surface time-of-check conditions rely on.
// A context value under KeyUser that does not implement User is treated as
// no user at all.
type User interface {
	IsAuthenticated() bool
	IsStaff() bool
	IsSuperuser() bool
}

// PermissionChecker is implemented by users that can answer permission checks.
type PermissionChecker interface {
	HasPermission(name string) bool
}

// GroupMember is implemented by users with a group-membership lookup.
type GroupMember interface {
	InGroup(name string) bool
}

// FlagService resolves feature flags from an external system.
type FlagService interface {
	FlagActive(name string, ctx Context) bool
}

// User returns the context's user, or nil when absent or of the wrong type.
func (c Context) User() User {
	if c == nil {
		return nil
	}
	user, _ := c[KeyUser].(User)
	return user
}

// Now returns the evaluation time: the KeyNow override when present,
// otherwise the current local time.
func (c Context) Now() time.Time {
	if c != nil {
		if now, ok := c[KeyNow].(time.Time); ok {
			return now
		}
	}
	return time.Now()
}

func (c Context) flagService() FlagService {
	if c == nil {
		return nil
	}
	service, _ := c[KeyFlags].(FlagService)
	return service
}
