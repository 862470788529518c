package registry

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	// ErrNotFound reports an unknown slug or type name at resolve or
	// unregister time. Always recoverable; use the OrDefault variants
	// where uncertainty is expected.
	ErrNotFound = errors.New("implementation not found")

	// ErrNilFactory reports an implementation registered without a factory.
	ErrNilFactory = errors.New("implementation factory cannot be nil")
)

// ValidationError reports an implementation rejected at registration time.
// Registration makes no state change when validation fails.
type ValidationError struct {
	Registry string
	Slug     string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("registry %q rejected implementation %q: %s", e.Registry, e.Slug, e.Reason)
}

// ConfigError reports a structural inconsistency between registries,
// e.g. a hierarchy parent that is not part of the registry set. These are
// surfaced by startup checks, never thrown during lookups.
type ConfigError struct {
	Component string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Reason)
}

func notFound(registryName, what string) error {
	return fmt.Errorf("%w: %s in registry %q", ErrNotFound, what, registryName)
}
