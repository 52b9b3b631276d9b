package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cloudweave/cloudweave/pkg/cache"
	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/infer"
	"github.com/cloudweave/cloudweave/pkg/layout"
	"github.com/cloudweave/cloudweave/pkg/normalize"
	"github.com/cloudweave/cloudweave/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, logger, and hooks - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Hooks  observability.PipelineHooks
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// Hooks default to the globally registered pipeline hooks.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		Hooks:  observability.Pipeline(),
	}
}

// graphEntry is the cached output of the graph stages. Warnings travel
// with the graph so a cache hit reproduces them.
type graphEntry struct {
	Shape         normalize.Shape  `json:"shape"`
	GraphHash     string           `json:"graph_hash"`
	ResourceCount int              `json:"resource_count"`
	Graph         *diagram.Graph   `json:"graph"`
	Warnings      []errors.Warning `json:"warnings,omitempty"`
}

// layoutEntry is the cached output of the layout stage.
type layoutEntry struct {
	Graph    *diagram.Graph   `json:"graph"`
	Warnings []errors.Warning `json:"warnings,omitempty"`
}

// Execute runs the complete normalize → infer → build → layout pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyRuntime(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result, err := r.runGraphStages(ctx, input, opts)
	if err != nil {
		return nil, err
	}

	if err := r.runLayoutStage(ctx, result, opts); err != nil {
		return nil, err
	}

	return result, nil
}

// BuildGraph runs only the graph stages (normalize → infer → build) with
// caching. The returned graph carries no positions.
func (r *Runner) BuildGraph(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyRuntime(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return r.runGraphStages(ctx, input, opts)
}

// Relayout re-runs only the layout stage for an existing diagram graph.
// It serves the re-layout API endpoint and the layout CLI command, where
// the inventory is long gone and only the graph remains.
func (r *Runner) Relayout(ctx context.Context, g *diagram.Graph, opts Options) (*Result, error) {
	r.applyRuntime(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	result := &Result{
		ImportID:  uuid.New(),
		Graph:     g,
		GraphHash: hashGraph(g),
	}
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	if err := r.runLayoutStage(ctx, result, opts); err != nil {
		return nil, err
	}

	return result, nil
}

// runGraphStages produces the diagram graph for an inventory document,
// reading from and writing to the cache under the input hash.
func (r *Runner) runGraphStages(ctx context.Context, input []byte, opts Options) (*Result, error) {
	result := &Result{ImportID: uuid.New()}
	key := r.Keyer.GraphKey(cache.Hash(input), opts.GraphKeyOpts())

	if !opts.SkipCache {
		if entry, ok := r.getGraphEntry(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "graph")
			result.Shape = entry.Shape
			result.Graph = entry.Graph
			result.GraphHash = entry.GraphHash
			result.Warnings = append(result.Warnings, entry.Warnings...)
			result.Stats.ResourceCount = entry.ResourceCount
			result.Stats.NodeCount = len(entry.Graph.Nodes)
			result.Stats.EdgeCount = len(entry.Graph.Edges)
			result.CacheInfo.GraphHit = true

			r.Logger.Debug("graph cache hit", "key", key)
			r.logGraph(result)
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	// Stage 1: Normalize
	normStart := time.Now()
	opts.Hooks.OnNormalizeStart(ctx, len(input))
	norm, err := normalize.Normalize(input, normalize.Options{DefaultRegion: opts.DefaultRegion})
	if err != nil {
		opts.Hooks.OnNormalizeComplete(ctx, "", 0, time.Since(normStart), err)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	result.Stats.NormalizeTime = time.Since(normStart)
	opts.Hooks.OnNormalizeComplete(ctx, string(norm.Shape), len(norm.Resources), result.Stats.NormalizeTime, nil)

	result.Shape = norm.Shape
	result.Warnings = append(result.Warnings, norm.Warnings...)
	result.Stats.ResourceCount = len(norm.Resources)

	// Stage 2: Infer
	inferStart := time.Now()
	opts.Hooks.OnInferStart(ctx, len(norm.Resources))
	inferred := infer.Infer(norm.Resources)
	result.Stats.InferTime = time.Since(inferStart)
	opts.Hooks.OnInferComplete(ctx, len(inferred.Relationships), result.Stats.InferTime, nil)

	// Stage 3: Build
	buildStart := time.Now()
	opts.Hooks.OnBuildStart(ctx, len(inferred.Resources))
	g, buildWarnings := diagram.Build(inferred.Resources, inferred.Relationships)
	result.Stats.BuildTime = time.Since(buildStart)
	opts.Hooks.OnBuildComplete(ctx, len(g.Nodes), len(g.Edges), result.Stats.BuildTime, nil)

	result.Graph = g
	result.GraphHash = hashGraph(g)
	result.Warnings = append(result.Warnings, buildWarnings...)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	if !opts.SkipCache {
		r.setEntry(ctx, key, "graph", graphEntry{
			Shape:         result.Shape,
			GraphHash:     result.GraphHash,
			ResourceCount: result.Stats.ResourceCount,
			Graph:         g,
			Warnings:      result.Warnings,
		}, cache.TTLGraph)
	}

	r.logGraph(result)
	return result, nil
}

// runLayoutStage lays out result.Graph in place, reading from and writing
// to the cache under the graph hash plus the layout options.
func (r *Runner) runLayoutStage(ctx context.Context, result *Result, opts Options) error {
	key := r.Keyer.LayoutKey(result.GraphHash, opts.LayoutKeyOpts())
	opts.Hooks.OnLayoutStart(ctx, string(opts.Strategy), len(result.Graph.Nodes))

	if !opts.SkipCache {
		if entry, ok := r.getLayoutEntry(ctx, key); ok {
			observability.Cache().OnCacheHit(ctx, "layout")
			result.Graph = entry.Graph
			result.Warnings = append(result.Warnings, entry.Warnings...)
			result.CacheInfo.LayoutHit = true

			r.Logger.Debug("layout cache hit", "key", key)
			opts.Hooks.OnLayoutComplete(ctx, string(opts.Strategy), 0, nil)
			r.logLayout(result, opts)
			return nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	// Stage 4: Layout
	layoutStart := time.Now()
	laid, warnings, err := layout.Compute(ctx, result.Graph, opts.LayoutOptions())
	if err != nil {
		opts.Hooks.OnLayoutComplete(ctx, string(opts.Strategy), time.Since(layoutStart), err)
		return fmt.Errorf("layout: %w", err)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	opts.Hooks.OnLayoutComplete(ctx, string(opts.Strategy), result.Stats.LayoutTime, nil)

	result.Graph = laid
	result.Warnings = append(result.Warnings, warnings...)

	// A failed layout keeps the previous positions. That outcome is not
	// pinned in the cache: the failure may be transient (a timeout mid
	// solve) and the next run should get a fresh attempt.
	if !opts.SkipCache && !hasLayoutFailure(warnings) {
		r.setEntry(ctx, key, "layout", layoutEntry{Graph: laid, Warnings: warnings}, cache.TTLLayout)
	}

	r.logLayout(result, opts)
	return nil
}

// getGraphEntry reads and decodes a cached graph entry. Undecodable
// entries read as misses and get recomputed.
func (r *Runner) getGraphEntry(ctx context.Context, key string) (graphEntry, bool) {
	var entry graphEntry
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil || entry.Graph == nil {
		return entry, false
	}
	return entry, true
}

// getLayoutEntry reads and decodes a cached layout entry.
func (r *Runner) getLayoutEntry(ctx context.Context, key string) (layoutEntry, bool) {
	var entry layoutEntry
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return entry, false
	}
	if err := json.Unmarshal(data, &entry); err != nil || entry.Graph == nil {
		return entry, false
	}
	return entry, true
}

// setEntry encodes and stores a cache entry. Cache write failures are
// logged and swallowed; the pipeline result is already in hand.
func (r *Runner) setEntry(ctx context.Context, key, keyType string, entry any, ttl time.Duration) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyRuntime injects the runner's logger and hooks into options that
// don't carry their own.
func (r *Runner) applyRuntime(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if opts.Hooks == nil {
		opts.Hooks = r.Hooks
	}
}

func (r *Runner) logGraph(result *Result) {
	r.Logger.Info("built diagram graph",
		"shape", result.Shape,
		"resources", result.Stats.ResourceCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"warnings", len(result.Warnings),
		"cache_hit", result.CacheInfo.GraphHit)
}

func (r *Runner) logLayout(result *Result, opts Options) {
	r.Logger.Info("computed layout",
		"strategy", opts.Strategy,
		"duration", result.Stats.LayoutTime,
		"cache_hit", result.CacheInfo.LayoutHit)
}

// hashGraph returns the content hash of a graph's canonical JSON form.
func hashGraph(g *diagram.Graph) string {
	data, _ := json.Marshal(g)
	return cache.Hash(data)
}

// hasLayoutFailure reports whether any warning marks a failed layout run.
func hasLayoutFailure(warnings []errors.Warning) bool {
	for _, w := range warnings {
		if w.Kind == errors.WarnLayoutFailed {
			return true
		}
	}
	return false
}
