package tracing

// Span attribute keys for discovery tracing.
const (
	AttrRunID         = "discovery.run.id"
	AttrModule        = "discovery.module"
	AttrRegistryName  = "registry.name"
	AttrRegistryCount = "registry.count"
	AttrPluginName    = "plugin.name"
	AttrPluginLoaded  = "plugin.loaded"
	AttrPluginFailed  = "plugin.failed"

	AttrErrorMessage = "error.message"
	AttrErrorType    = "error.type"
)

// Span names for consistent naming.
const (
	SpanDiscoverRegistries = "discovery.reload"
	SpanRegistryReload     = "discovery.registry.reload"
	SpanPluginMerge        = "discovery.plugin.merge"
)
