package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/OmenApps/stratagem/config"
	"github.com/OmenApps/stratagem/internal/log"
	"github.com/OmenApps/stratagem/internal/tracing"
	"github.com/OmenApps/stratagem/plugin"
	"github.com/OmenApps/stratagem/pubsub"
	"github.com/OmenApps/stratagem/registry"
)

// DefinitionsModule is the module imported once per run, before any
// registry reloads, so registry definitions exist before implementations
// register into them.
const DefinitionsModule = "registries"

// RegistryResult reports the reload outcome for one registry.
type RegistryResult struct {
	Name    string
	Imports []ModuleResult
	Plugins plugin.Report
}

// RunReport summarizes one discovery run.
type RunReport struct {
	RunID      string
	Skipped    bool
	Definition []ModuleResult
	Registries []RegistryResult
}

// Failed reports whether any import or plugin reference failed.
func (r RunReport) Failed() bool {
	if len(r.Definition) > 0 {
		return true
	}
	for _, reg := range r.Registries {
		if len(reg.Imports) > 0 || len(reg.Plugins.Failures) > 0 {
			return true
		}
	}
	return false
}

// Orchestrator drives full registry discovery: definitions first, then
// each registry in set order, with cache clearing, plugin merging and
// reload notification per registry.
type Orchestrator struct {
	Set     *Set
	Loader  ModuleLoader
	Plugins *plugin.Loader
	Tracing *tracing.Provider

	maintenance atomic.Bool

	mu        sync.RWMutex
	consumers map[string]func([]registry.Choice)
}

// NewOrchestrator wires an orchestrator over a registry set.
func NewOrchestrator(set *Set, loader ModuleLoader, plugins *plugin.Loader, tp *tracing.Provider) *Orchestrator {
	return &Orchestrator{
		Set:       set,
		Loader:    loader,
		Plugins:   plugins,
		Tracing:   tp,
		consumers: make(map[string]func([]registry.Choice)),
	}
}

// SetMaintenance latches maintenance mode. While latched and the skip is
// configured, discovery runs return immediately without touching any
// registry.
func (o *Orchestrator) SetMaintenance(on bool) {
	o.maintenance.Store(on)
}

// Maintenance reports the latch state.
func (o *Orchestrator) Maintenance() bool {
	return o.maintenance.Load()
}

// DiscoverRegistries runs a full discovery pass. Order per registry:
// clear cache, import its implementations module, merge plugins, fire the
// Reloaded signal. Failures are collected in the report and never abort
// sibling registries.
func (o *Orchestrator) DiscoverRegistries(ctx context.Context) RunReport {
	report := RunReport{RunID: uuid.NewString()}

	if o.Maintenance() && config.Current().SkipDuringMaintenance {
		report.Skipped = true
		log.Info(log.CatDiscovery, "discovery skipped, maintenance mode", "run_id", report.RunID)
		return report
	}

	ctx, span := o.startSpan(ctx, tracing.SpanDiscoverRegistries,
		attribute.String(tracing.AttrRunID, report.RunID),
		attribute.Int(tracing.AttrRegistryCount, o.Set.Len()),
	)
	defer span.End()

	log.Info(log.CatDiscovery, "discovery started", "run_id", report.RunID, "registries", o.Set.Len())

	if o.Loader != nil {
		report.Definition = o.Loader.ImportAll(ctx, DefinitionsModule)
		if len(report.Definition) > 0 {
			span.SetAttributes(importFailureAttrs(report.Definition[0])...)
		}
	}

	for _, reg := range o.Set.All() {
		report.Registries = append(report.Registries, o.reloadRegistry(ctx, reg))
	}

	if report.Failed() {
		span.SetStatus(codes.Error, "discovery completed with failures")
	}
	log.Info(log.CatDiscovery, "discovery finished", "run_id", report.RunID, "failed", report.Failed())
	return report
}

func (o *Orchestrator) reloadRegistry(ctx context.Context, reg *registry.Registry) RegistryResult {
	ctx, span := o.startSpan(ctx, tracing.SpanRegistryReload,
		attribute.String(tracing.AttrRegistryName, reg.Name()),
	)
	defer span.End()

	result := RegistryResult{Name: reg.Name()}

	reg.ClearCache()

	if o.Loader != nil {
		result.Imports = o.Loader.ImportAll(ctx, reg.Name())
		if len(result.Imports) > 0 {
			span.SetAttributes(importFailureAttrs(result.Imports[0])...)
			span.SetStatus(codes.Error, "module import failed")
		}
	}

	if o.Plugins != nil {
		_, mergeSpan := o.startSpan(ctx, tracing.SpanPluginMerge,
			attribute.String(tracing.AttrRegistryName, reg.Name()),
		)
		result.Plugins = o.Plugins.LoadInto(ctx, reg)
		mergeSpan.SetAttributes(
			attribute.Int(tracing.AttrPluginLoaded, len(result.Plugins.Loaded)),
			attribute.Int(tracing.AttrPluginFailed, len(result.Plugins.Failures)),
		)
		if len(result.Plugins.Failures) > 0 {
			failure := result.Plugins.Failures[0]
			mergeSpan.SetAttributes(
				attribute.String(tracing.AttrPluginName, failure.Plugin),
				attribute.String(tracing.AttrErrorMessage, failure.Err.Error()),
			)
			mergeSpan.SetStatus(codes.Error, "plugin merge completed with failures")
		}
		mergeSpan.End()
	}

	registry.Reloaded.Send(pubsub.ReloadedEvent, registry.ReloadedPayload{Registry: reg})
	log.Info(log.CatDiscovery, "registry reloaded", "registry", reg.Name(), "count", reg.Len())
	return result
}

// importFailureAttrs describes the first failed import on a span, which
// is enough to point an operator at the broken module.
func importFailureAttrs(result ModuleResult) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(tracing.AttrModule, result.Module),
		attribute.String(tracing.AttrErrorMessage, result.Err.Error()),
		attribute.String(tracing.AttrErrorType, fmt.Sprintf("%T", result.Err)),
	}
}

func (o *Orchestrator) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o.Tracing == nil {
		return noop.NewTracerProvider().Tracer("noop").Start(ctx, name)
	}
	return o.Tracing.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

// SyncChoices subscribes a consumer to choice pushes under a unique name.
// UpdateChoices calls fn once per registry with its current choices.
func (o *Orchestrator) SyncChoices(name string, fn func([]registry.Choice)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.consumers[name] = fn
}

// UpdateChoices pushes every registry's current choices to every
// subscribed consumer.
func (o *Orchestrator) UpdateChoices() {
	o.mu.RLock()
	consumers := make([]func([]registry.Choice), 0, len(o.consumers))
	for _, fn := range o.consumers {
		consumers = append(consumers, fn)
	}
	o.mu.RUnlock()

	for _, reg := range o.Set.All() {
		choices := reg.Choices()
		for _, fn := range consumers {
			fn(choices)
		}
	}
}
