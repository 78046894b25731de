// Package cli implements the meshdrift command-line interface.
//
// Every command builds on the same configuration: defaults, overlaid by an
// optional TOML file (--config), overlaid by command flags.
//
// # Commands
//
//   - render: simulate offline and write SVG, PNG, PDF, JSON or DOT frames
//   - animate: run the mesh live in the terminal
//   - serve: HTTP preview with a live SVG frame and state endpoint
//   - layout: print the density targets for a viewport
//   - config: write or print the TOML configuration
//   - cache: manage the artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// makes the engine check its graphs after every rebuild.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meshdrift/pkg/buildinfo"
	"github.com/matzehuels/meshdrift/pkg/cache"
	"github.com/matzehuels/meshdrift/pkg/config"
	"github.com/matzehuels/meshdrift/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "meshdrift"

	// redisEnv names the redis address used when --redis is not given.
	redisEnv = "MESHDRIFT_REDIS_ADDR"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is bound to the persistent --config flag.
	configPath string
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
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Meshdrift animates a drifting mesh of nodes, edges and pulses",
		Long:         `Meshdrift simulates an ambient network mesh: depth-layered nodes orbiting on a seamless loop, degree-capped edges between them, and light pulses travelling along the moving edges. Frames can be rendered to files, animated in the terminal, or previewed over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.installHooks()
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "TOML configuration file")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig returns the defaults, or the --config file with defaults
// filled in.
func (c *CLI) loadConfig() (config.Options, error) {
	if c.configPath == "" {
		return config.Default(), nil
	}
	opts, err := config.Load(c.configPath)
	if err != nil {
		return config.Options{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "seed", opts.Seed)
	return opts, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys are scoped by the
// build version.
func (c *CLI) newRunner(ctx context.Context, noCache bool, redisAddr string) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache, redisAddr)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr == "" {
		redisAddr = os.Getenv(redisEnv)
	}
	if redisAddr != "" {
		c.Logger.Debug("using redis cache", "addr", redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisOptions{Addr: redisAddr})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/meshdrift/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
