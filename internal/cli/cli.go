// Package cli implements the maskgen command-line interface.
//
// # Commands
//
//   - generate: build a preset or design file into a GDSII mask and previews
//   - presets: list the built-in designs
//   - preview: render SVG/PNG/PDF from a design or an existing .gds file
//   - inspect: print cell, polygon and layer statistics of a .gds file
//   - hierarchy: draw the cell reference graph
//   - cache: manage the local artifact cache
//   - runs: list and show recorded runs
//   - serve: run the HTTP API
//
// All commands accept --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/buildinfo"
	"github.com/matzehuels/maskgen/pkg/cache"
	"github.com/matzehuels/maskgen/pkg/pipeline"
	"github.com/matzehuels/maskgen/pkg/registry"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "maskgen"

// Environment variables that supply backend defaults.
const (
	envRedis    = "MASKGEN_REDIS"
	envRegistry = "MASKGEN_REGISTRY"
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "maskgen generates photomask layouts for acoustic resonator test chips",
		Long: `maskgen builds GDSII photomasks of interdigitated transducers, contour-mode
resonators, undercut calibration rings and alignment marks from TOML designs.

Metal is drawn on layer 1/0 and the etch resist on layer 2/0. Every device
carries an engraved label with its key parameters.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.presetsCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.hierarchyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.runsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// backendFlags selects the cache and registry backends.
type backendFlags struct {
	noCache  bool
	redis    string // redis:// URL or host:port
	registry string // registry URI, see registry.Open
	mongo    string // overrides registry with a MongoDB URI
}

func (f *backendFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redis, "cache-redis", os.Getenv(envRedis), "share the cache through Redis (URL or host:port, env "+envRedis+")")
	cmd.Flags().StringVar(&f.registry, "registry", os.Getenv(envRegistry), "run registry: memory, file:<dir> or mongodb://… (env "+envRegistry+")")
	cmd.Flags().StringVar(&f.mongo, "mongo-uri", "", "record runs in MongoDB at this URI")
}

func (f backendFlags) registryURI() string {
	if f.mongo != "" {
		return f.mongo
	}
	return f.registry
}

// newRunner creates a pipeline runner for CLI use. The registry is opened
// only when withRegistry is set.
func (c *CLI) newRunner(ctx context.Context, f backendFlags, withRegistry bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, f)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	if withRegistry {
		store, err := registry.Open(ctx, f.registryURI())
		if err != nil {
			runner.Close()
			return nil, err
		}
		runner.Registry = store
	}
	return runner, nil
}

// newCache opens Redis when configured, else the file cache. An unreachable
// Redis falls back to the file cache with a warning.
func (c *CLI) newCache(ctx context.Context, f backendFlags) (cache.Cache, error) {
	if f.noCache {
		return cache.NewNullCache(), nil
	}
	if f.redis != "" {
		rc, err := cache.NewRedisCache(ctx, redisConfig(f.redis))
		if err == nil {
			c.Logger.Debug("using redis cache", "addr", f.redis)
			return rc, nil
		}
		c.Logger.Warn("redis cache unavailable, using local cache", "err", err)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

func redisConfig(s string) cache.RedisConfig {
	if strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://") {
		return cache.RedisConfig{URL: s, Prefix: appName + ":"}
	}
	return cache.RedisConfig{Addr: s, Prefix: appName + ":"}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/maskgen/).
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
