// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline execution, cache operations, and inventory
// collection.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnNormalizeStart(ctx, len(input))
//	// ... do normalization ...
//	observability.Pipeline().OnNormalizeComplete(ctx, shape, resourceCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the diagram pipeline.
type PipelineHooks interface {
	// Normalize events. The shape is only known once normalization
	// completes, so the start event carries the raw input size instead.
	OnNormalizeStart(ctx context.Context, inputBytes int)
	OnNormalizeComplete(ctx context.Context, shape string, resourceCount int, duration time.Duration, err error)

	// Inference events
	OnInferStart(ctx context.Context, resourceCount int)
	OnInferComplete(ctx context.Context, edgeCount int, duration time.Duration, err error)

	// Graph build events
	OnBuildStart(ctx context.Context, resourceCount int)
	OnBuildComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, strategy string, nodeCount int)
	OnLayoutComplete(ctx context.Context, strategy string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Collector Hooks
// =============================================================================

// CollectorHooks receives events from live inventory collection.
type CollectorHooks interface {
	// OnRegionStart records the beginning of a per-region describe sweep.
	OnRegionStart(ctx context.Context, region string)

	// OnRegionComplete records the end of a per-region describe sweep.
	OnRegionComplete(ctx context.Context, region string, resourceCount int, duration time.Duration, err error)

	// OnServiceError records a non-fatal per-service describe failure.
	OnServiceError(ctx context.Context, region, service string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnNormalizeStart(context.Context, int) {}
func (NoopPipelineHooks) OnNormalizeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnInferStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnInferComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnBuildStart(context.Context, int)                               {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                      {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)  {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopCollectorHooks is a no-op implementation of CollectorHooks.
type NoopCollectorHooks struct{}

func (NoopCollectorHooks) OnRegionStart(context.Context, string)                             {}
func (NoopCollectorHooks) OnRegionComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopCollectorHooks) OnServiceError(context.Context, string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks  PipelineHooks  = NoopPipelineHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	collectorHooks CollectorHooks = NoopCollectorHooks{}
	hooksMu        sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetCollectorHooks registers custom collector hooks.
// This should be called once at application startup before any collection runs.
func SetCollectorHooks(h CollectorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		collectorHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Collector returns the registered collector hooks.
func Collector() CollectorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return collectorHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	collectorHooks = NoopCollectorHooks{}
}
