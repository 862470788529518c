package condition

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OmenApps/stratagem/config"
)

// testUser is a fake identity with opt-in capabilities.
type testUser struct {
	authenticated bool
	staff         bool
	superuser     bool
	permissions   map[string]bool
	groups        map[string]bool
}

func (u *testUser) IsAuthenticated() bool { return u.authenticated }
func (u *testUser) IsStaff() bool         { return u.staff }
func (u *testUser) IsSuperuser() bool     { return u.superuser }

func (u *testUser) HasPermission(name string) bool { return u.permissions[name] }
func (u *testUser) InGroup(name string) bool       { return u.groups[name] }

// bareUser implements User only, no permission or group support.
type bareUser struct{}

func (bareUser) IsAuthenticated() bool { return true }
func (bareUser) IsStaff() bool         { return false }
func (bareUser) IsSuperuser() bool     { return false }

type staticFlags map[string]bool

func (s staticFlags) FlagActive(name string, _ Context) bool { return s[name] }

func userCtx(u User) Context {
	return Context{KeyUser: u}
}

func TestPermission(t *testing.T) {
	t.Run("granted", func(t *testing.T) {
		ctx := userCtx(&testUser{permissions: map[string]bool{"billing.change": true}})
		require.True(t, Permission("billing.change").Met(ctx))
	})

	t.Run("denied", func(t *testing.T) {
		ctx := userCtx(&testUser{permissions: map[string]bool{}})
		require.False(t, Permission("billing.change").Met(ctx))
	})

	t.Run("no user", func(t *testing.T) {
		require.False(t, Permission("billing.change").Met(nil))
		require.False(t, Permission("billing.change").Met(Context{}))
	})

	t.Run("user without permission support", func(t *testing.T) {
		require.False(t, Permission("billing.change").Met(userCtx(bareUser{})))
	})
}

func TestIdentityLeaves(t *testing.T) {
	anon := Context{}
	user := userCtx(&testUser{authenticated: true})
	admin := userCtx(&testUser{authenticated: true, staff: true, superuser: true})

	require.False(t, Authenticated().Met(anon))
	require.True(t, Authenticated().Met(user))

	require.False(t, Staff().Met(user))
	require.True(t, Staff().Met(admin))

	require.False(t, Superuser().Met(user))
	require.True(t, Superuser().Met(admin))
}

func TestGroup(t *testing.T) {
	ctx := userCtx(&testUser{groups: map[string]bool{"editors": true}})
	require.True(t, Group("editors").Met(ctx))
	require.False(t, Group("admins").Met(ctx))
	require.False(t, Group("editors").Met(userCtx(bareUser{})))
	require.False(t, Group("editors").Met(nil))
}

func TestFeatureFlag(t *testing.T) {
	t.Cleanup(config.Reset)

	t.Run("static table wins", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Flags = map[string]bool{"new_checkout": true, "old_checkout": false}
		config.Replace(cfg)

		ctx := Context{KeyFlags: staticFlags{"old_checkout": true}}
		require.True(t, FeatureFlag("new_checkout").Met(ctx))
		// Known in the table, so the service is never consulted
		require.False(t, FeatureFlag("old_checkout").Met(ctx))
	})

	t.Run("falls back to flag service", func(t *testing.T) {
		config.Reset()
		ctx := Context{KeyFlags: staticFlags{"beta": true}}
		require.True(t, FeatureFlag("beta").Met(ctx))
		require.False(t, FeatureFlag("missing").Met(ctx))
	})

	t.Run("unknown everywhere is false", func(t *testing.T) {
		config.Reset()
		require.False(t, FeatureFlag("nowhere").Met(Context{}))
	})
}

func TestSetting(t *testing.T) {
	t.Cleanup(config.Reset)

	cfg := config.Defaults()
	cfg.Settings = map[string]any{"billing_mode": "invoice"}
	config.Replace(cfg)

	require.True(t, Setting("billing_mode", "invoice").Met(nil))
	require.False(t, Setting("billing_mode", "card").Met(nil))
	require.False(t, Setting("missing", "anything").Met(nil))
	require.True(t, Setting("missing", nil).Met(nil))
}

func TestFunc(t *testing.T) {
	calls := 0
	cond := Func("always", func(Context) bool {
		calls++
		return true
	})
	require.True(t, cond.Met(nil))
	require.Equal(t, 1, calls)
	require.Equal(t, "Callable(always)", cond.Explain())
}

func at(hour, minute int) Context {
	// 2026-01-05 is a Monday
	return Context{KeyNow: time.Date(2026, 1, 5, hour, minute, 0, 0, time.Local)}
}

func TestTimeWindow(t *testing.T) {
	t.Run("same day window", func(t *testing.T) {
		window := TimeWindow(At(9, 0), At(17, 0))
		require.True(t, window.Met(at(9, 0)))
		require.True(t, window.Met(at(12, 30)))
		require.False(t, window.Met(at(17, 0))) // end is exclusive
		require.False(t, window.Met(at(8, 59)))
	})

	t.Run("overnight window wraps midnight", func(t *testing.T) {
		window := TimeWindow(At(22, 0), At(6, 0))
		require.True(t, window.Met(at(23, 0)))
		require.True(t, window.Met(at(2, 0)))
		require.False(t, window.Met(at(12, 0)))
		require.False(t, window.Met(at(6, 0)))
	})

	t.Run("weekday restriction", func(t *testing.T) {
		window := TimeWindow(At(0, 0), At(23, 59), Saturday, Sunday)
		require.False(t, window.Met(at(12, 0))) // Monday
		saturday := Context{KeyNow: time.Date(2026, 1, 10, 12, 0, 0, 0, time.Local)}
		require.True(t, window.Met(saturday))
	})
}

func TestDateRange(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.Local)
	on := func(y int, m time.Month, d int) Context {
		return Context{KeyNow: time.Date(y, m, d, 15, 4, 5, 0, time.Local)}
	}

	t.Run("inclusive bounds", func(t *testing.T) {
		window := DateRange(&start, &end)
		require.True(t, window.Met(on(2026, 6, 1)))
		require.True(t, window.Met(on(2026, 6, 30)))
		require.False(t, window.Met(on(2026, 5, 31)))
		require.False(t, window.Met(on(2026, 7, 1)))
	})

	t.Run("open end bound", func(t *testing.T) {
		window := DateRange(&start, nil)
		require.True(t, window.Met(on(2030, 1, 1)))
		require.False(t, window.Met(on(2020, 1, 1)))
	})

	t.Run("open start bound", func(t *testing.T) {
		window := DateRange(nil, &end)
		require.True(t, window.Met(on(2020, 1, 1)))
		require.False(t, window.Met(on(2030, 1, 1)))
	})

	t.Run("fully open is always true", func(t *testing.T) {
		require.True(t, DateRange(nil, nil).Met(nil))
	})
}

func TestEnvironment(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		t.Setenv("STRATAGEM_TEST_ENV", "production")
		require.True(t, Environment("STRATAGEM_TEST_ENV").Met(nil))
		require.False(t, Environment("STRATAGEM_TEST_ENV_MISSING").Met(nil))
	})

	t.Run("equals", func(t *testing.T) {
		t.Setenv("STRATAGEM_TEST_ENV", "production")
		require.True(t, EnvironmentEquals("STRATAGEM_TEST_ENV", "production").Met(nil))
		require.False(t, EnvironmentEquals("STRATAGEM_TEST_ENV", "staging").Met(nil))
	})
}
