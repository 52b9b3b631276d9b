package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	pkgio "github.com/cloudweave/cloudweave/pkg/io"
)

// layoutOpts holds the command-line flags for the layout command.
type layoutOpts struct {
	output      string
	format      string
	strategy    string
	noCache     bool
	interactive bool
}

// layoutCommand creates the layout command for recomputing positions on an
// existing diagram document.
func (c *CLI) layoutCommand() *cobra.Command {
	opts := layoutOpts{format: FormatJSON}

	cmd := &cobra.Command{
		Use:   "layout <diagram.json>",
		Short: "Recompute positions for an existing diagram document",
		Long: `Recompute positions for an existing diagram document.

The layout command takes a diagram document (produced by 'build') and lays it
out again under a chosen strategy, without re-reading the inventory it was
built from. Topology is untouched: the same nodes and edges come back, only
positions and container sizes change.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			input, ok, err := resolveInput(args, "Select Diagram", true)
			if err != nil || !ok {
				return err
			}
			return c.runLayout(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), dot")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy: layered (default), grid, force")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the layout strategy interactively")

	return cmd
}

// runLayout loads the document, recomputes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts *layoutOpts) error {
	doc, err := pkgio.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load diagram: %w", err)
	}

	if opts.interactive {
		strategy, ok, err := pickStrategy(opts.strategy)
		if err != nil {
			return err
		}
		if !ok {
			printInfo("Cancelled")
			return nil
		}
		opts.strategy = strategy
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	pipeOpts := c.pipelineOptions(opts.strategy, "")

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", pipeOpts.Strategy))
	spinner.Start()

	result, err := runner.Relayout(ctx, &doc.Graph, pipeOpts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := pkgio.NewDocument(result.Graph, doc.Name, string(pipeOpts.Strategy))
	explicit := opts.output
	if explicit == "" && opts.format == FormatJSON {
		explicit = input // relayout in place by default
	}
	path, err := c.writeDocument(out, input, explicit, opts.format)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(path)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printWarnings(result.Warnings)

	return nil
}
