package discovery

import (
	"context"
	"sync"

	"github.com/OmenApps/stratagem/internal/log"
)

// ModuleResult reports the outcome of one import hook.
type ModuleResult struct {
	Module string
	Err    error
}

// ModuleLoader runs the registration code associated with a named module.
// A module is a logical unit like "registries" or a registry's
// implementations; what runs for it is up to the loader.
type ModuleLoader interface {
	// ImportAll runs every hook bound to the module. Hook failures are
	// isolated: one result per failed hook, and the rest still run.
	ImportAll(ctx context.Context, module string) []ModuleResult
}

// FuncLoader binds modules to plain registration functions. Hooks are
// declared explicitly, so what a reload executes is inspectable rather
// than a side effect of package imports.
type FuncLoader struct {
	mu    sync.RWMutex
	hooks map[string][]func(ctx context.Context) error
}

// NewFuncLoader creates an empty loader.
func NewFuncLoader() *FuncLoader {
	return &FuncLoader{hooks: make(map[string][]func(ctx context.Context) error)}
}

// OnImport binds a hook to a module. Hooks run in binding order on every
// import of that module, so they must be idempotent.
func (l *FuncLoader) OnImport(module string, fn func(ctx context.Context) error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hooks[module] = append(l.hooks[module], fn)
}

// ImportAll runs the module's hooks, isolating failures.
func (l *FuncLoader) ImportAll(ctx context.Context, module string) []ModuleResult {
	l.mu.RLock()
	hooks := append([]func(ctx context.Context) error(nil), l.hooks[module]...)
	l.mu.RUnlock()

	var results []ModuleResult
	for _, fn := range hooks {
		if err := fn(ctx); err != nil {
			log.ErrorErr(log.CatDiscovery, "module import failed", err, "module", module)
			results = append(results, ModuleResult{Module: module, Err: err})
		}
	}
	return results
}

// Modules returns every module with at least one hook, unordered.
func (l *FuncLoader) Modules() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	modules := make([]string, 0, len(l.hooks))
	for module := range l.hooks {
		modules = append(modules, module)
	}
	return modules
}
