// Package cli implements the impose command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/laidout/impose/pkg/buildinfo"
	"github.com/laidout/impose/pkg/cache"
	"github.com/laidout/impose/pkg/observability"
	"github.com/laidout/impose/pkg/pipeline"
	"github.com/laidout/impose/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "impose"

	// envRedisAddr and envMongoURI provide defaults for --redis and --mongo-uri.
	envRedisAddr = "IMPOSE_REDIS_ADDR"
	envMongoURI  = "IMPOSE_MONGO_URI"
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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// EnableTracing routes pipeline, cache and HTTP events to the debug log.
func (c *CLI) EnableTracing() {
	observability.NewLogHooks(c.Logger).Register()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Impose lays out document pages on printed sheets",
		Long:         `Impose computes where each page of a document lands on the printed paper for folded signatures, booklets and polyhedron nets, and renders the result as SVG, PNG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.foldCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.netCommand())
	root.AddCommand(c.presetCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the preset store: MongoDB when uri is set, otherwise the
// per-user preset directory.
func openStore(ctx context.Context, uri string) (store.Store, error) {
	if uri != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{URI: uri})
	}
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return store.NewFileStore(filepath.Join(dir, "presets"))
}

// envOr returns the environment variable key, or fallback when it is unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/impose/).
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

// configDir returns the config directory using XDG standard (~/.config/impose/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
