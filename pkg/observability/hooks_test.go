package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnNormalizeStart(ctx, 2048)
	p.OnNormalizeComplete(ctx, "region_inventory", 42, time.Second, nil)
	p.OnInferStart(ctx, 42)
	p.OnInferComplete(ctx, 17, time.Second, nil)
	p.OnBuildStart(ctx, 42)
	p.OnBuildComplete(ctx, 45, 17, time.Second, nil)
	p.OnLayoutStart(ctx, "layered", 45)
	p.OnLayoutComplete(ctx, "layered", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "graph", 1024)

	// Collector hooks
	col := NoopCollectorHooks{}
	col.OnRegionStart(ctx, "us-east-1")
	col.OnRegionComplete(ctx, "us-east-1", 100, time.Second, nil)
	col.OnServiceError(ctx, "us-east-1", "ec2", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Collector().(NoopCollectorHooks); !ok {
		t.Error("Collector() should return NoopCollectorHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customCollector := &testCollectorHooks{}
	SetCollectorHooks(customCollector)
	if Collector() != customCollector {
		t.Error("SetCollectorHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testCollectorHooks struct{ NoopCollectorHooks }
