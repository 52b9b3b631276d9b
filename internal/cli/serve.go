package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudweave/cloudweave/internal/server"
)

// serveCommand creates the serve command exposing the pipeline over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the diagram pipeline as an HTTP API",
		Long: `Expose the diagram pipeline as an HTTP API.

Endpoints:
  POST /api/v1/build    Build a diagram from an uploaded inventory document
  POST /api/v1/layout   Recompute positions for an uploaded diagram document
  GET  /health          Health check for load balancers
  GET  /version         Build metadata

Layout options are query parameters (strategy, region, columns, seed,
no_cache). With a Redis address configured, pipeline results are shared
across server instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger, addr)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
