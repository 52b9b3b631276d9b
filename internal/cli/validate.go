package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudweave/cloudweave/pkg/diagram"
	"github.com/cloudweave/cloudweave/pkg/errors"
	pkgio "github.com/cloudweave/cloudweave/pkg/io"
)

// validateCommand creates the validate command for checking diagram
// documents.
func (c *CLI) validateCommand() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "validate <diagram.json>",
		Short: "Check a diagram document against the schema and structural rules",
		Long: `Check a diagram document against the schema and structural rules.

Validation runs in two passes: the document schema catches shape defects
(wrong types, missing required fields), then the structural pass catches
duplicate node ids, unknown parents, containment cycles, and edges whose
endpoints reference missing nodes.

Exits non-zero when the document is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress output, report via exit code only")

	return cmd
}

// runValidate decodes and validates a document, printing a summary.
func (c *CLI) runValidate(input string, quiet bool) error {
	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read %s: %w", input, err)
	}

	doc, err := pkgio.Decode(data)
	if err != nil {
		if quiet {
			return err
		}
		printError("Invalid diagram document")
		printDetail("%s", errors.UserMessage(err))
		return err
	}

	if quiet {
		return nil
	}

	printSuccess("Valid diagram document")
	printKeyValue("name", displayName(doc))
	printKeyValue("version", fmt.Sprintf("%d", doc.Version))
	if doc.Strategy != "" {
		printKeyValue("strategy", doc.Strategy)
	}
	printStats(len(doc.Nodes), len(doc.Edges), false)
	printDetail("%d container(s), %d root(s)", countContainers(&doc.Graph), countRoots(&doc.Graph))

	return nil
}

func displayName(doc *pkgio.Document) string {
	if doc.Name != "" {
		return doc.Name
	}
	return "(unnamed)"
}

func countContainers(g *diagram.Graph) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Container {
			n++
		}
	}
	return n
}

func countRoots(g *diagram.Graph) int {
	n := 0
	for _, node := range g.Nodes {
		if node.ParentID == "" {
			n++
		}
	}
	return n
}
