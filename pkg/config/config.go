// Package config parses brickwall.toml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
	"github.com/matzehuels/brickwall/pkg/pipeline"
	"github.com/matzehuels/brickwall/pkg/render"
)

// FileName is the configuration file looked up by Load.
const FileName = "brickwall.toml"

// ErrNotFound is returned by Load when no path is given and no brickwall.toml
// exists in the working directory or any parent.
var ErrNotFound = errors.New("config: " + FileName + " not found")

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Config is the top-level brickwall.toml configuration.
type Config struct {
	Layout    masonry.Config  `toml:"layout"`
	Container ContainerConfig `toml:"container"`
	Render    RenderConfig    `toml:"render"`
	Cache     CacheConfig     `toml:"cache"`
	Server    ServerConfig    `toml:"server"`
}

// ContainerConfig is the container the items are packed into.
type ContainerConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Size returns the container as a masonry.Size.
func (c ContainerConfig) Size() masonry.Size {
	return masonry.Size{Width: c.Width, Height: c.Height}
}

// RenderConfig controls output artifacts.
type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Scale    float64  `toml:"scale"` // raster scale factor for png
	Gap      float64  `toml:"gap"`   // inset in pixels between drawn items
	ShowGrid bool     `toml:"show_grid"`
	Palette  []string `toml:"palette"`
}

// CacheConfig selects and configures the pipeline cache.
type CacheConfig struct {
	Backend   string `toml:"backend"` // file, redis or none
	Dir       string `toml:"dir"`     // empty = user cache dir
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	TTL       string `toml:"ttl"`
	Scope     string `toml:"scope"` // key prefix when deployments share one cache
}

// TTLDuration parses TTL. Validate guarantees it parses.
func (c CacheConfig) TTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TTL)
	return d
}

// ServerConfig controls `brickwall serve`.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Store         string `toml:"store"` // memory or mongo
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Validate checks the configuration for issues that would otherwise surface
// as confusing output. It returns all found issues joined together, coded
// INVALID_CONFIG.
func (c *Config) Validate() error {
	var errs []error

	l := c.Layout
	if l.ColumnWidth < 0 {
		errs = append(errs, fmt.Errorf("layout.column_width must be >= 0 (0 = first item's width)"))
	}
	if l.RowHeight < 0 {
		errs = append(errs, fmt.Errorf("layout.row_height must be >= 0 (0 = first item's height)"))
	}
	if l.Cols < 0 || l.Rows < 0 {
		errs = append(errs, fmt.Errorf("layout.cols and layout.rows must be >= 0 (0 = derived)"))
	}
	if l.MinCols < 0 || l.MinRows < 0 || l.MaxCols < 0 || l.MaxRows < 0 {
		errs = append(errs, fmt.Errorf("layout min/max bounds must be >= 0"))
	}
	if l.MaxCols > 0 && l.MinCols > l.MaxCols {
		errs = append(errs, fmt.Errorf("layout.min_cols (%d) exceeds layout.max_cols (%d)", l.MinCols, l.MaxCols))
	}
	if l.MaxRows > 0 && l.MinRows > l.MaxRows {
		errs = append(errs, fmt.Errorf("layout.min_rows (%d) exceeds layout.max_rows (%d)", l.MinRows, l.MaxRows))
	}
	if l.ScanLimit < 0 {
		errs = append(errs, fmt.Errorf("layout.scan_limit must be >= 0 (0 = %d)", masonry.DefaultScanLimit))
	}

	if err := bwerrors.ValidateDimension("container.width", c.Container.Width); err != nil {
		errs = append(errs, err)
	}
	if err := bwerrors.ValidateDimension("container.height", c.Container.Height); err != nil {
		errs = append(errs, err)
	}

	for _, f := range c.Render.Formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			errs = append(errs, fmt.Errorf("render.formats: %s", bwerrors.UserMessage(err)))
		}
	}
	if c.Render.Scale <= 0 {
		errs = append(errs, fmt.Errorf("render.scale must be > 0"))
	}
	if c.Render.Gap < 0 {
		errs = append(errs, fmt.Errorf("render.gap must be >= 0"))
	}
	for _, color := range c.Render.Palette {
		if !hexColorRe.MatchString(color) {
			errs = append(errs, fmt.Errorf("render.palette: %q is not a hex color (e.g. \"#7D56F4\")", color))
		}
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			errs = append(errs, fmt.Errorf("cache.redis_addr must be set when cache.backend is \"redis\""))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be one of: file, redis, none"))
	}
	if c.Cache.TTL != "" {
		if d, err := time.ParseDuration(c.Cache.TTL); err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("cache.ttl must be a non-negative duration (e.g. \"24h\")"))
		}
	}

	switch c.Server.Store {
	case StoreMemory:
	case StoreMongo:
		if c.Server.MongoURI == "" {
			errs = append(errs, fmt.Errorf("server.mongo_uri must be set when server.store is \"mongo\""))
		}
		if c.Server.MongoDatabase == "" {
			errs = append(errs, fmt.Errorf("server.mongo_database must not be empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("server.store must be one of: memory, mongo"))
	}
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr must not be empty"))
	}

	if err := errors.Join(errs...); err != nil {
		return bwerrors.Wrap(bwerrors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// Defaults returns a Config with the values used when no brickwall.toml exists.
func Defaults() Config {
	return Config{
		Layout: masonry.Config{
			Orientation: masonry.Vertical,
			MinCols:     masonry.DefaultMinSegments,
			MinRows:     masonry.DefaultMinSegments,
			MaxCols:     masonry.DefaultMaxSegments,
			MaxRows:     masonry.DefaultMaxSegments,
			ScanLimit:   masonry.DefaultScanLimit,
		},
		Container: ContainerConfig{
			Width:  1200,
			Height: 800,
		},
		Render: RenderConfig{
			Formats: []string{"svg"},
			Scale:   1,
			Palette: slices.Clone(render.DefaultPalette),
		},
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       "24h",
		},
		Server: ServerConfig{
			Addr:          ":8080",
			Store:         StoreMemory,
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "brickwall",
		},
	}
}

// Load reads brickwall.toml from the given path. If path is empty, it walks
// up from the current working directory looking for brickwall.toml and
// returns ErrNotFound when there is none. Unknown keys (likely typos) are an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := findConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := Defaults()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidConfig, err, "decode %s", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidConfig, "unknown keys in %s: %s (possible typos?)", path, strings.Join(keys, ", "))
	}

	return &cfg, nil
}

// LoadOrDefault is Load that falls back to Defaults when no file was asked
// for and none was found.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, ErrNotFound) {
		d := Defaults()
		return &d, nil
	}
	return cfg, err
}

// findConfig walks up from the current directory looking for brickwall.toml.
func findConfig() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("config: get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

// InitFile writes a default brickwall.toml template to the given directory.
func InitFile(dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config: %s already exists at %s", FileName, path)
	}

	content := `# brickwall.toml

[layout]
orientation = "vertical"  # vertical fills rows top to bottom; horizontal fills columns left to right
column_width = 0          # 0 = width of the first item
row_height = 0            # 0 = height of the first item
liquid = false            # scale cells so the columns (or rows) exactly fill the container
cols = 0                  # liquid only: force a column count (0 = derived)
rows = 0                  # liquid only: force a row count (0 = derived)
min_cols = 1
min_rows = 1
max_cols = 9999
max_rows = 9999
scan_limit = 10000        # primary-axis search bound per item
resize_orientation_only = false

[container]
width = 1200
height = 800

[render]
formats = ["svg"]         # svg, png, pdf, json, dot, grid
scale = 1.0
gap = 0.0
show_grid = false
palette = ["#7D56F4", "#F25D94", "#43BF6D", "#F2A541", "#3FA7D6", "#E4572E"]

[cache]
backend = "file"          # file, redis or none
dir = ""                  # empty = user cache directory
redis_addr = "localhost:6379"
redis_db = 0
ttl = "24h"
scope = ""                # prefix cache keys, e.g. "staging"

[server]
addr = ":8080"
store = "memory"          # memory or mongo
mongo_uri = "mongodb://localhost:27017"
mongo_database = "brickwall"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}
