package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/brickwall/pkg/buildinfo"
	"github.com/matzehuels/brickwall/pkg/cache"
	"github.com/matzehuels/brickwall/pkg/config"
	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/observability"
	"github.com/matzehuels/brickwall/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "brickwall"

	// redisPrefix scopes every Redis key written by the CLI.
	redisPrefix = appName + ":"
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

	// ConfigPath is the --config flag. Empty means search for brickwall.toml.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetVerbose switches to debug logging and routes pipeline, cache and HTTP
// events to the log.
func (c *CLI) SetVerbose(verbose bool) {
	if !verbose {
		c.SetLogLevel(LogInfo)
		return
	}
	c.SetLogLevel(LogDebug)
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Brickwall packs items into a gap-free grid",
		Long: `Brickwall is a deterministic first-fit grid packer. It places rectangular items
into the first free block of a cell grid, fills holes left by earlier items,
and renders the result as SVG, PNG, PDF, JSON or a Graphviz occupancy diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.ConfigPath, "config", "c", "", "path to brickwall.toml (default: search upward from the working directory)")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.initCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig reads brickwall.toml, falling back to defaults when none exists.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.ConfigPath != "" {
		if err := bwerrors.ValidatePath(c.ConfigPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadOrDefault(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if cfg.Cache.Scope != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Scope+":")
	}
	r := pipeline.NewRunner(cc, keyer, c.Logger)
	r.TTL = cfg.Cache.TTLDuration()
	return r, nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == config.CacheNone {
		return cache.NewNullCache(), nil
	}

	if cfg.Backend == config.CacheRedis {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Debug("using redis cache", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return rc, nil
	}

	dir, err := resolveCacheDir(cfg)
	if err != nil {
		c.Logger.Debug("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/brickwall/).
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

// resolveCacheDir prefers the configured directory over the XDG default.
func resolveCacheDir(cfg config.CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds pipeline options from the configuration file.
func pipelineOptions(cfg *config.Config, logger *log.Logger) pipeline.Options {
	return pipeline.Options{
		Layout:    cfg.Layout,
		Container: cfg.Container.Size(),
		Formats:   cfg.Render.Formats,
		Scale:     cfg.Render.Scale,
		Gap:       cfg.Render.Gap,
		ShowGrid:  cfg.Render.ShowGrid,
		Palette:   cfg.Render.Palette,
		Logger:    logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// parseSize parses "WIDTHxHEIGHT" (e.g. "1200x800").
func parseSize(s string) (masonry.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return masonry.Size{}, bwerrors.New(bwerrors.ErrCodeInvalidInput, "invalid size %q (want WIDTHxHEIGHT, e.g. 1200x800)", s)
	}
	width, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return masonry.Size{}, bwerrors.New(bwerrors.ErrCodeInvalidInput, "invalid width in %q", s)
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return masonry.Size{}, bwerrors.New(bwerrors.ErrCodeInvalidInput, "invalid height in %q", s)
	}
	size := masonry.Size{Width: width, Height: height}
	if err := bwerrors.ValidateDimension("width", size.Width); err != nil {
		return masonry.Size{}, err
	}
	if err := bwerrors.ValidateDimension("height", size.Height); err != nil {
		return masonry.Size{}, err
	}
	return size, nil
}

// formatSize renders a size the way parseSize reads it.
func formatSize(s masonry.Size) string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}
