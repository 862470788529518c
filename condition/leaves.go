package condition

import (
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/OmenApps/stratagem/config"
)

// permission is true iff the context user can answer the permission check
// affirmatively. A missing user, or a user without permission support,
// yields false.
type permission struct {
	name string
}

// Permission checks that the context user holds a named permission.
func Permission(name string) Condition {
	return permission{name: name}
}

func (c permission) Met(ctx Context) bool {
	user := ctx.User()
	if user == nil {
		return false
	}
	checker, ok := user.(PermissionChecker)
	if !ok {
		return false
	}
	return checker.HasPermission(c.name)
}

func (c permission) Explain() string {
	return fmt.Sprintf("Permission(%s)", c.name)
}

// featureFlag resolves through the static flag table first, then any
// FlagService supplied in the context. Unknown everywhere means false.
type featureFlag struct {
	name string
}

// FeatureFlag checks that a named feature flag is enabled.
func FeatureFlag(name string) Condition {
	return featureFlag{name: name}
}

func (c featureFlag) Met(ctx Context) bool {
	table := config.FlagTable()
	if table.Known(c.name) {
		return table.Enabled(c.name)
	}
	if service := ctx.flagService(); service != nil {
		return service.FlagActive(c.name, ctx)
	}
	return false
}

func (c featureFlag) Explain() string {
	return fmt.Sprintf("FeatureFlag(%s)", c.name)
}

// setting compares a named configuration value against an expected value.
type setting struct {
	name     string
	expected any
}

// Setting checks that a named configuration setting equals an expected value.
func Setting(name string, expected any) Condition {
	return setting{name: name, expected: expected}
}

func (c setting) Met(ctx Context) bool {
	actual, ok := config.Setting(c.name)
	if !ok {
		return c.expected == nil
	}
	return reflect.DeepEqual(actual, c.expected)
}

func (c setting) Explain() string {
	return fmt.Sprintf("Setting(%s=%v)", c.name, c.expected)
}

// fn delegates to an injected predicate.
type fn struct {
	name  string
	check func(Context) bool
}

// Func wraps an arbitrary predicate as a condition. The name is used only
// in explanations.
func Func(name string, check func(Context) bool) Condition {
	return fn{name: name, check: check}
}

func (c fn) Met(ctx Context) bool {
	return c.check(ctx)
}

func (c fn) Explain() string {
	return fmt.Sprintf("Callable(%s)", c.name)
}

// authenticated is true iff a user is present and authenticated.
type authenticated struct{}

// Authenticated checks that the context user is authenticated.
func Authenticated() Condition {
	return authenticated{}
}

func (authenticated) Met(ctx Context) bool {
	user := ctx.User()
	return user != nil && user.IsAuthenticated()
}

func (authenticated) Explain() string {
	return "Authenticated"
}

// staff is true iff a user is present and flagged as staff.
type staff struct{}

// Staff checks that the context user is a staff member.
func Staff() Condition {
	return staff{}
}

func (staff) Met(ctx Context) bool {
	user := ctx.User()
	return user != nil && user.IsStaff()
}

func (staff) Explain() string {
	return "Staff"
}

// superuser is true iff a user is present and flagged as a superuser.
type superuser struct{}

// Superuser checks that the context user is a superuser.
func Superuser() Condition {
	return superuser{}
}

func (superuser) Met(ctx Context) bool {
	user := ctx.User()
	return user != nil && user.IsSuperuser()
}

func (superuser) Explain() string {
	return "Superuser"
}

// group is true iff the user supports group lookups and belongs to the group.
type group struct {
	name string
}

// Group checks that the context user belongs to a named group.
func Group(name string) Condition {
	return group{name: name}
}

func (c group) Met(ctx Context) bool {
	user := ctx.User()
	if user == nil {
		return false
	}
	member, ok := user.(GroupMember)
	if !ok {
		return false
	}
	return member.InGroup(c.name)
}

func (c group) Explain() string {
	return fmt.Sprintf("Group(%s)", c.name)
}

// Weekday indexes days Monday=0 through Sunday=6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// weekdayOf converts a time.Time's weekday (Sunday=0) to Monday=0 indexing.
func weekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// At builds a TimeOfDay.
func At(hour, minute int) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute}
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// timeWindow is true iff the evaluation time-of-day falls in [start, end).
// When end < start the window spans midnight.
type timeWindow struct {
	start TimeOfDay
	end   TimeOfDay
	days  []Weekday
}

// TimeWindow checks that the current local time-of-day falls in
// [start, end). An end before start wraps past midnight. Days, when given,
// restrict the window to those weekdays; none means every day.
func TimeWindow(start, end TimeOfDay, days ...Weekday) Condition {
	return timeWindow{start: start, end: end, days: days}
}

func (c timeWindow) Met(ctx Context) bool {
	now := ctx.Now()
	if len(c.days) > 0 {
		today := weekdayOf(now)
		match := false
		for _, day := range c.days {
			if day == today {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}

	current := now.Hour()*60 + now.Minute()
	start, end := c.start.minutes(), c.end.minutes()
	if start <= end {
		return current >= start && current < end
	}
	// Overnight window (e.g. 22:00 - 06:00)
	return current >= start || current < end
}

func (c timeWindow) Explain() string {
	if len(c.days) > 0 {
		return fmt.Sprintf("TimeWindow(%s-%s, days=%v)", c.start, c.end, c.days)
	}
	return fmt.Sprintf("TimeWindow(%s-%s)", c.start, c.end)
}

// dateRange is true iff the evaluation date falls in [start, end] inclusive.
// Either bound may be nil, meaning unbounded on that side.
type dateRange struct {
	start *time.Time
	end   *time.Time
}

// DateRange checks that the current local date is within [start, end]
// inclusive. Pass nil for an open bound. Only the date part of the bounds
// is considered.
func DateRange(start, end *time.Time) Condition {
	return dateRange{start: start, end: end}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (c dateRange) Met(ctx Context) bool {
	today := dateOnly(ctx.Now())
	if c.start != nil && today.Before(dateOnly(*c.start)) {
		return false
	}
	if c.end != nil && today.After(dateOnly(*c.end)) {
		return false
	}
	return true
}

func (c dateRange) Explain() string {
	start, end := "*", "*"
	if c.start != nil {
		start = c.start.Format("2006-01-02")
	}
	if c.end != nil {
		end = c.end.Format("2006-01-02")
	}
	return fmt.Sprintf("DateRange(%s to %s)", start, end)
}

// environment checks an environment variable.
type environment struct {
	name     string
	expected *string
}

// Environment checks that an environment variable exists and is non-empty.
func Environment(name string) Condition {
	return environment{name: name}
}

// EnvironmentEquals checks that an environment variable exactly equals a value.
func EnvironmentEquals(name, expected string) Condition {
	return environment{name: name, expected: &expected}
}

func (c environment) Met(ctx Context) bool {
	value := os.Getenv(c.name)
	if c.expected != nil {
		return value == *c.expected
	}
	return value != ""
}

func (c environment) Explain() string {
	if c.expected != nil {
		return fmt.Sprintf("Environment(%s=%q)", c.name, *c.expected)
	}
	return fmt.Sprintf("Environment(%s)", c.name)
}
