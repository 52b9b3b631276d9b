// Package cli implements the cloudweave command-line interface.
//
// This package provides commands for building architecture diagrams from
// cloud inventory exports, re-laying-out and validating existing diagram
// documents, collecting live inventories from AWS, and serving the diagram
// pipeline over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - build: Run the full pipeline from an inventory export to a diagram
//   - layout: Recompute positions for an existing diagram document
//   - validate: Check a diagram document against the schema
//   - collect: Describe a live AWS account into an inventory document
//   - serve: Expose the pipeline as an HTTP API
//   - cache: Inspect and clear the pipeline result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cloudweave/cloudweave/pkg/buildinfo"
	"github.com/cloudweave/cloudweave/pkg/cache"
	"github.com/cloudweave/cloudweave/pkg/layout"
	"github.com/cloudweave/cloudweave/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cloudweave"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Output formats for the build command.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	cfg    Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Before any command runs, the config file is loaded into the CLI and the
// logger is attached to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Cloudweave turns cloud inventories into architecture diagrams",
		Long:         `Cloudweave is a CLI tool for turning raw cloud inventory exports into positioned architecture diagrams, inferring the relationships between resources along the way.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig()
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.collectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// newCache selects the cache backend: Redis when an address is configured,
// the on-disk cache otherwise. Without a resolvable cache directory the CLI
// still works, it just recomputes everything.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if addr := c.redisAddr(); addr != "" {
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: addr})
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory, preferring the CLOUDWEAVE_CACHE_DIR
// environment variable, then the config file, then the platform default.
func (c *CLI) cacheDir() (string, error) {
	if dir := os.Getenv("CLOUDWEAVE_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// redisAddr returns the Redis address, preferring CLOUDWEAVE_REDIS_ADDR over
// the config file. Empty means no Redis.
func (c *CLI) redisAddr() string {
	if addr := os.Getenv("CLOUDWEAVE_REDIS_ADDR"); addr != "" {
		return addr
	}
	return c.cfg.Cache.RedisAddr
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from flag values, falling back to
// the config file where a flag was left empty. Remaining zero values are
// filled by the pipeline's own defaulting.
func (c *CLI) pipelineOptions(strategy, region string) pipeline.Options {
	if strategy == "" {
		strategy = c.cfg.DefaultStrategy
	}
	if region == "" {
		region = c.cfg.DefaultRegion
	}
	return pipeline.Options{
		Strategy:      layout.Strategy(strategy),
		DefaultRegion: region,
		Logger:        c.Logger,
	}
}

// validateFormat checks a build output format flag.
func validateFormat(format string) error {
	switch format {
	case FormatJSON, FormatDOT:
		return nil
	}
	return fmt.Errorf("invalid format %q (must be one of: json, dot)", format)
}

// outputPath derives a default output path from the input by swapping the
// extension, e.g. prod.json -> prod.diagram.json.
func outputPath(input, explicit, suffix string) string {
	if explicit != "" {
		return explicit
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// diagramName derives a document name from an input path.
func diagramName(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
