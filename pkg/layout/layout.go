// Package layout assigns positions and container sizes to diagram graphs.
//
// Three strategies are available:
//
//   - layered: nested box model solved per nesting level by an external
//     constraint solver (see [layered]); the structured default.
//   - grid: row-major placement at a fixed column count and cell pitch,
//     ignoring edges and containment; the fast fallback.
//   - force: seeded force-directed simulation per sibling group; organic
//     arrangements for small and medium graphs.
//
// Every strategy is followed by a bottom-up container resizing pass, so
// after layout each container box encloses its children plus padding.
// Layout never fails: when a strategy cannot run, the input positions are
// kept and the caller receives a warning instead of an error.
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/errors"
	"github.com/cloudweave/cloudweave/pkg/layout/layered"
)

// Strategy selects the placement algorithm.
type Strategy string

// Supported strategies.
const (
	StrategyLayered Strategy = "layered"
	StrategyGrid    Strategy = "grid"
	StrategyForce   Strategy = "force"
)

// ValidStrategies is the set of accepted strategy names.
var ValidStrategies = map[Strategy]bool{
	StrategyLayered: true,
	StrategyGrid:    true,
	StrategyForce:   true,
}

const (
	// DefaultPadding is the margin between a container's border and its
	// children's bounding box.
	DefaultPadding = 40.0

	// DefaultColumns is the grid strategy's column count.
	DefaultColumns = 4

	// Grid cell pitch: leaf size plus the padding margin.
	DefaultCellWidth  = 160.0
	DefaultCellHeight = 128.0

	// DefaultNodeSpacing separates siblings within one layer.
	DefaultNodeSpacing = 60.0

	// DefaultLayerSpacing separates consecutive layers.
	DefaultLayerSpacing = 80.0

	// DefaultForceIterations is the force strategy's simulation length.
	DefaultForceIterations = 50

	// DefaultForceNodeCeiling bounds the force strategy. The simulation
	// computes pairwise repulsion, O(n^2) per iteration, which stays
	// interactive up to roughly this many nodes; larger graphs fall back
	// to the grid strategy with a warning.
	DefaultForceNodeCeiling = 400

	// DefaultSeed makes force runs reproducible.
	DefaultSeed = int64(42)
)

// Options configures a layout pass. The zero value plus
// ValidateAndSetDefaults yields the layered strategy with standard spacing.
type Options struct {
	Strategy Strategy `json:"strategy,omitempty"`

	// Grid settings.
	Columns    int     `json:"columns,omitempty"`
	CellWidth  float64 `json:"cell_width,omitempty"`
	CellHeight float64 `json:"cell_height,omitempty"`

	// Shared spacing.
	Padding      float64 `json:"padding,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`
	LayerSpacing float64 `json:"layer_spacing,omitempty"`

	// Force settings.
	ForceIterations  int   `json:"force_iterations,omitempty"`
	ForceNodeCeiling int   `json:"force_node_ceiling,omitempty"`
	Seed             int64 `json:"seed,omitempty"`

	// Runtime options (not serialized).
	Solver layered.Solver `json:"-"`
	Logger *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the strategy and fills zero fields.
// Idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Strategy == "" {
		o.Strategy = StrategyLayered
	}
	if !ValidStrategies[o.Strategy] {
		return fmt.Errorf("invalid strategy: %q (must be one of: layered, grid, force)", o.Strategy)
	}

	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.CellWidth <= 0 {
		o.CellWidth = DefaultCellWidth
	}
	if o.CellHeight <= 0 {
		o.CellHeight = DefaultCellHeight
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.NodeSpacing <= 0 {
		o.NodeSpacing = DefaultNodeSpacing
	}
	if o.LayerSpacing <= 0 {
		o.LayerSpacing = DefaultLayerSpacing
	}
	if o.ForceIterations <= 0 {
		o.ForceIterations = DefaultForceIterations
	}
	if o.ForceNodeCeiling <= 0 {
		o.ForceNodeCeiling = DefaultForceNodeCeiling
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Solver == nil {
		o.Solver = layered.NewGraphvizSolver()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// Compute lays out the graph and returns a new graph; the input is never
// mutated. Strategy failures degrade instead of aborting: the previous
// positions are kept and a warning describes what happened. The only error
// Compute returns is option validation.
func Compute(ctx context.Context, g *diagram.Graph, opts Options) (*diagram.Graph, []errors.Warning, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}

	out := g.Clone()
	if len(out.Nodes) == 0 {
		return out, nil, nil
	}

	var warnings []errors.Warning
	strategy := opts.Strategy
	if strategy == StrategyForce && len(out.Nodes) > opts.ForceNodeCeiling {
		opts.Logger.Warn("force layout over node ceiling, using grid",
			"nodes", len(out.Nodes), "ceiling", opts.ForceNodeCeiling)
		warnings = append(warnings, errors.NewWarning(errors.WarnForceFallback, "",
			"force layout skipped for %d nodes (ceiling %d), grid used instead",
			len(out.Nodes), opts.ForceNodeCeiling))
		strategy = StrategyGrid
	}

	if err := runStrategy(ctx, out, opts, strategy); err != nil {
		opts.Logger.Warn("layout failed, keeping previous positions",
			"strategy", strategy, "error", err)
		warnings = append(warnings, errors.NewWarning(errors.WarnLayoutFailed, "",
			"%s layout failed, previous positions kept: %v", strategy, err))
		return g.Clone(), warnings, nil
	}

	resizeContainers(out, opts.Padding)
	return out, warnings, nil
}

// runStrategy executes one placement strategy, converting panics into
// errors so a misbehaving solver cannot crash the caller.
func runStrategy(ctx context.Context, g *diagram.Graph, opts Options, strategy Strategy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeLayoutFailed, "%s strategy panicked: %v", strategy, r)
		}
	}()

	switch strategy {
	case StrategyGrid:
		applyGrid(g, opts)
		return nil
	case StrategyForce:
		applyForce(g, opts)
		return nil
	default:
		return applyLayered(ctx, g, opts)
	}
}

// applyLayered hands the containment tree to the solver and converts its
// absolute placements back to parent-local positions. Solved container
// sizes land at the padding the solver already applied, so the resize pass
// afterwards leaves them untouched.
func applyLayered(ctx context.Context, g *diagram.Graph, opts Options) error {
	root, edges := buildBoxTree(g)
	pos, err := opts.Solver.Solve(ctx, root, edges, layered.SolveOptions{
		NodeSpacing:  opts.NodeSpacing,
		LayerSpacing: opts.LayerSpacing,
		Padding:      opts.Padding,
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeSolverFailed, err, "constraint solve")
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		r, ok := pos[n.ID]
		if !ok {
			return errors.New(errors.ErrCodeSolverFailed, "solver returned no position for %q", n.ID)
		}
		x, y := r.X, r.Y
		if n.ParentID != "" {
			if p, ok := pos[n.ParentID]; ok {
				x -= p.X
				y -= p.Y
			}
		}
		n.Position = diagram.Point{X: x, Y: y}
		n.Width = r.Width
		n.Height = r.Height
	}
	return nil
}
