// Package cli implements the storeshot command-line interface.
//
// This package wires the rendering pipeline to cobra commands, prints
// results with lipgloss and offers a bubbletea style picker. All commands
// log through charmbracelet/log; --verbose switches to debug level.
//
// # Commands
//
// The main commands are:
//   - render: Render a config's screenshots into marketing images
//   - styles: List the available style recipes
//   - palette: Extract a color scheme from a screenshot
//   - serve: Preview renders over HTTP
//   - cache: Manage the render cache
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/storeshot/pkg/cache"
	"github.com/matzehuels/storeshot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "storeshot"

	// defaultRawDir holds the unprocessed screenshots.
	defaultRawDir = "raw"

	// defaultOutDir receives the rendered images.
	defaultOutDir = "output"
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

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are shared by every command that renders.
type cacheFlags struct {
	noCache bool
	redis   string
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache picks the cache backend: none, redis when an address is given,
// otherwise the local file cache. An unusable cache directory disables
// caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	if flags.noCache {
		return cache.NewNullCache(), nil
	}
	if flags.redis != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     flags.redis,
			Password: os.Getenv("STORESHOT_REDIS_PASSWORD"),
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", flags.redis)
		return rc, nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache directory unusable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/storeshot/).
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
