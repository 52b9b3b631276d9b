// Package pipeline provides the core diagram pipeline for Cloudweave.
//
// This package implements the complete normalize → infer → build → layout
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Normalize: Detect the inventory document shape and decode it into
//     the canonical resource list
//  2. Infer: Assign containment parents and derive relationship edges
//  3. Build: Turn resources and relationships into a diagram graph
//  4. Layout: Compute positions and container sizes for the graph
//
// The first three stages are cached as one unit keyed by the input hash;
// layout is cached separately keyed by the graph hash plus the layout
// options, so re-laying-out a known graph never re-reads the inventory.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{Strategy: layout.StrategyLayered}
//	result, err := runner.Execute(ctx, input, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("nodes:", len(result.Graph.Nodes))
//
// Re-run layout for an existing diagram:
//
//	result, err := runner.Relayout(ctx, doc.Graph, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cloudweave/cloudweave/pkg/cache"
	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/layout"
	"github.com/cloudweave/cloudweave/pkg/layout/layered"
	"github.com/cloudweave/cloudweave/pkg/normalize"
	"github.com/cloudweave/cloudweave/pkg/observability"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultStrategy is the layout strategy used when none is requested.
const DefaultStrategy = layout.StrategyLayered

// DefaultRegion tags resources whose inventory document carries no region
// information. Matches the AWS tooling default.
const DefaultRegion = "us-east-1"

// ValidStrategies is the set of supported layout strategies.
var ValidStrategies = layout.ValidStrategies

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Graph options
	DefaultRegion string `json:"default_region,omitempty"`

	// Layout options
	Strategy        layout.Strategy `json:"strategy,omitempty"`
	Columns         int             `json:"columns,omitempty"`
	CellWidth       float64         `json:"cell_width,omitempty"`
	CellHeight      float64         `json:"cell_height,omitempty"`
	ForceIterations int             `json:"force_iterations,omitempty"`
	Seed            int64           `json:"seed,omitempty"`

	// Execution options
	SkipCache bool          `json:"skip_cache,omitempty"`
	Timeout   time.Duration `json:"timeout,omitempty"` // zero means no limit

	// Runtime options (not serialized)
	Logger *log.Logger                 `json:"-"`
	Solver layered.Solver              `json:"-"`
	Hooks  observability.PipelineHooks `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ImportID uniquely identifies this run.
	ImportID uuid.UUID

	// Shape is the detected input document shape. Empty for Relayout runs.
	Shape normalize.Shape

	// Graph is the built diagram graph with layout applied.
	Graph *diagram.Graph

	// GraphHash is the content hash of the built graph before layout.
	GraphHash string

	// Warnings from all stages, in stage order.
	Warnings []errors.Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Stage durations count
// actual work; a stage served from the cache leaves its duration zero.
type Stats struct {
	ResourceCount int
	NodeCount     int
	EdgeCount     int
	NormalizeTime time.Duration
	InferTime     time.Duration
	BuildTime     time.Duration
	LayoutTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GraphHit  bool // Whether the built graph came from cache
	LayoutHit bool // Whether the layout came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateStrategy checks that a layout strategy is valid. The error
// carries ErrCodeInvalidStrategy so transport layers can classify it.
func ValidateStrategy(strategy layout.Strategy) error {
	if !ValidStrategies[strategy] {
		return errors.New(errors.ErrCodeInvalidStrategy,
			"invalid strategy: %q (must be one of: layered, grid, force)", strategy)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the strategy and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}

	// Cache keys include these fields, so they must be canonical before
	// keying or two spellings of the same request would cache separately.
	if o.DefaultRegion == "" {
		o.DefaultRegion = DefaultRegion
	}
	if o.Columns <= 0 {
		o.Columns = layout.DefaultColumns
	}
	if o.CellWidth <= 0 {
		o.CellWidth = layout.DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = layout.DefaultCellHeight
	}
	if o.ForceIterations <= 0 {
		o.ForceIterations = layout.DefaultForceIterations
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Hooks == nil {
		o.Hooks = observability.Pipeline()
	}

	o.validated = true
	return nil
}

// GraphKeyOpts returns cache key options for the graph stages.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		DefaultRegion: o.DefaultRegion,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Strategy:   string(o.Strategy),
		Columns:    o.Columns,
		CellWidth:  o.CellWidth,
		CellHeight: o.CellHeight,
		Iterations: o.ForceIterations,
		Seed:       o.Seed,
	}
}

// LayoutOptions maps the pipeline options onto the layout engine's.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Strategy:        o.Strategy,
		Columns:         o.Columns,
		CellWidth:       o.CellWidth,
		CellHeight:      o.CellHeight,
		ForceIterations: o.ForceIterations,
		Seed:            o.Seed,
		Solver:          o.Solver,
		Logger:          o.Logger,
	}
}
