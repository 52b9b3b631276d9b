package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudweave/cloudweave/internal/collect"
)

// collectOpts holds the command-line flags for the collect command.
type collectOpts struct {
	output  string
	profile string
	regions []string
	build   bool // run the build pipeline on the collected inventory
}

// collectCommand creates the collect command for describing a live AWS
// account into an inventory document.
func (c *CLI) collectCommand() *cobra.Command {
	var opts collectOpts

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Describe a live AWS account into an inventory document",
		Long: `Describe a live AWS account into an inventory document.

Collection is read-only: every AWS call is a Describe. The output is a
region-keyed inventory in the same shape 'build' accepts from files, so a
collected account can be diagrammed immediately with --build or later with
'cloudweave build'.

Credentials come from the standard AWS shared config (~/.aws/config and
~/.aws/credentials) or the environment.

Examples:
  cloudweave collect -o prod-inventory.json
  cloudweave collect --profile prod --region us-east-1 --region eu-west-1
  cloudweave collect --build`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollect(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "inventory.json", "output file")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "AWS shared-config profile (default profile if empty)")
	cmd.Flags().StringArrayVar(&opts.regions, "region", nil, "region to describe (repeatable; profile region if empty)")
	cmd.Flags().BoolVar(&opts.build, "build", false, "also build a diagram from the collected inventory")

	return cmd
}

// runCollect describes the account and writes the inventory document.
func (c *CLI) runCollect(ctx context.Context, opts *collectOpts) error {
	profile := opts.profile
	if profile == "" {
		profile = c.cfg.Collect.Profile
	}
	regions := opts.regions
	if len(regions) == 0 {
		regions = c.cfg.Collect.Regions
	}

	collector := collect.NewCollector(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Describing account...")
	spinner.Start()
	prog := newProgress(c.Logger)

	inv, err := collector.Collect(ctx, collect.Options{Profile: profile, Regions: regions})
	if err != nil {
		spinner.StopWithError("Collection failed")
		return fmt.Errorf("collect inventory: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	total := 0
	for _, families := range inv.Regions {
		for _, records := range families {
			total += len(records)
		}
	}
	prog.done(fmt.Sprintf("Described %d resources in %d region(s)", total, len(inv.Regions)))

	data, err := json.MarshalIndent(inv.Document(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := os.WriteFile(opts.output, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write inventory %s: %w", opts.output, err)
	}

	printSuccess("Inventory collected")
	printFile(opts.output)
	printKeyValue("snapshot", inv.SnapshotID)
	printDetail("%d resource(s) across %d region(s)", total, len(inv.Regions))

	if opts.build {
		printNewline()
		return c.runBuild(ctx, opts.output, &buildOpts{format: FormatJSON})
	}

	printNewline()
	printNextStep("Build", "cloudweave build "+opts.output)
	return nil
}
