package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgio "github.com/cloudweave/cloudweave/pkg/io"
	"github.com/cloudweave/cloudweave/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output      string // output file path (default: <input>.diagram.json)
	format      string // output format: json or dot
	strategy    string // layout strategy: layered, grid, force
	region      string // default region for untagged resources
	noCache     bool   // bypass the pipeline cache
	skipLayout  bool   // stop after graph building, emit an unpositioned graph
	interactive bool   // pick the strategy from a list before running
}

// buildCommand creates the build command, the full inventory-to-diagram
// pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{format: FormatJSON}

	cmd := &cobra.Command{
		Use:   "build <inventory.json>",
		Short: "Build a positioned architecture diagram from a cloud inventory export",
		Long: `Build a positioned architecture diagram from a cloud inventory export.

The input shape is detected automatically. Three shapes are accepted: a
region-keyed inventory of typed resource arrays, a per-region array of tagged
resource records, and a bare (or wrapped) resource list.

Examples:
  cloudweave build prod-inventory.json
  cloudweave build prod-inventory.json --strategy force -o prod.diagram.json
  cloudweave build prod-inventory.json --format dot | dot -Tsvg -o prod.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			input, ok, err := resolveInput(args, "Select Inventory", false)
			if err != nil || !ok {
				return err
			}
			return c.runBuild(cmd.Context(), input, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.diagram.json)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json (default), dot")
	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "layout strategy: layered (default), grid, force")
	cmd.Flags().StringVar(&opts.region, "region", "", "region for resources whose inventory carries none")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.skipLayout, "skip-layout", false, "emit the graph without positions")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick the layout strategy interactively")

	return cmd
}

// runBuild reads the inventory, runs the pipeline, and writes the diagram.
func (c *CLI) runBuild(ctx context.Context, input string, opts *buildOpts) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read inventory %s: %w", input, err)
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

	pipeOpts := c.pipelineOptions(opts.strategy, opts.region)

	spinner := newSpinnerWithContext(ctx, "Building diagram...")
	spinner.Start()

	var result *pipeline.Result
	if opts.skipLayout {
		result, err = runner.BuildGraph(ctx, data, pipeOpts)
	} else {
		result, err = runner.Execute(ctx, data, pipeOpts)
	}
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build diagram: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	doc := pkgio.NewDocument(result.Graph, diagramName(input), string(pipeOpts.Strategy))
	path, err := c.writeDocument(doc, input, opts.output, opts.format)
	if err != nil {
		return err
	}

	printSuccess("Diagram built")
	printFile(path)
	printKeyValue("shape", string(result.Shape))
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.GraphHit && result.CacheInfo.LayoutHit)
	printWarnings(result.Warnings)
	printNewline()
	printNextStep("Re-layout", "cloudweave layout "+path+" --strategy force")

	return nil
}

// writeDocument writes a document in the requested format and returns the
// path written. An explicit "-" output streams JSON to stdout.
func (c *CLI) writeDocument(doc *pkgio.Document, input, explicit, format string) (string, error) {
	if explicit == "-" {
		return "(stdout)", pkgio.Write(doc, os.Stdout)
	}

	suffix := ".diagram.json"
	if format == FormatDOT {
		suffix = ".dot"
	}
	path := outputPath(input, explicit, suffix)

	var err error
	switch format {
	case FormatDOT:
		err = pkgio.ExportDOTFile(doc, path)
	default:
		err = pkgio.ExportFile(doc, path)
	}
	if err != nil {
		return "", fmt.Errorf("write output %s: %w", path, err)
	}
	return path, nil
}
