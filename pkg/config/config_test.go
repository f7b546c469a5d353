package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	bwerrors "github.com/matzehuels/brickwall/pkg/errors"
	"github.com/matzehuels/brickwall/pkg/masonry"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"layout.orientation", cfg.Layout.Orientation, masonry.Vertical},
		{"layout.column_width", cfg.Layout.ColumnWidth, 0.0},
		{"layout.max_cols", cfg.Layout.MaxCols, masonry.DefaultMaxSegments},
		{"layout.scan_limit", cfg.Layout.ScanLimit, masonry.DefaultScanLimit},
		{"container.width", cfg.Container.Width, 1200.0},
		{"render.scale", cfg.Render.Scale, 1.0},
		{"cache.backend", cfg.Cache.Backend, CacheFile},
		{"cache.ttl", cfg.Cache.TTLDuration(), 24 * time.Hour},
		{"server.addr", cfg.Server.Addr, ":8080"},
		{"server.store", cfg.Server.Store, StoreMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Defaults().Validate() = %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
[layout]
orientation = "horizontal"
column_width = 120
row_height = 80
liquid = true
max_rows = 6

[container]
width = 960
height = 480

[render]
formats = ["svg", "png", "grid"]
scale = 2.0
gap = 4

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2
ttl = "90m"

[server]
addr = "127.0.0.1:9000"
store = "mongo"
mongo_uri = "mongodb://db:27017"
`)

		cfg, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name string
			got  any
			want any
		}{
			{"layout.orientation", cfg.Layout.Orientation, masonry.Horizontal},
			{"layout.column_width", cfg.Layout.ColumnWidth, 120.0},
			{"layout.liquid", cfg.Layout.Liquid, true},
			{"layout.max_rows", cfg.Layout.MaxRows, 6},
			{"layout.min_rows", cfg.Layout.MinRows, 1},
			{"container", cfg.Container.Size(), masonry.Size{Width: 960, Height: 480}},
			{"render.formats", strings.Join(cfg.Render.Formats, ","), "svg,png,grid"},
			{"render.scale", cfg.Render.Scale, 2.0},
			{"cache.backend", cfg.Cache.Backend, CacheRedis},
			{"cache.redis_db", cfg.Cache.RedisDB, 2},
			{"cache.ttl", cfg.Cache.TTLDuration(), 90 * time.Minute},
			{"server.store", cfg.Server.Store, StoreMongo},
			{"server.mongo_database", cfg.Server.MongoDatabase, "brickwall"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if tt.got != tt.want {
					t.Errorf("got %v, want %v", tt.got, tt.want)
				}
			})
		}

		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := writeConfig(t, "[layout]\ncolum_width = 100\n")
		_, err := Load(path)
		if err == nil {
			t.Fatal("expected error for unknown key")
		}
		if !bwerrors.Is(err, bwerrors.ErrCodeInvalidConfig) {
			t.Errorf("code = %v, want %v", bwerrors.GetCode(err), bwerrors.ErrCodeInvalidConfig)
		}
		if !strings.Contains(err.Error(), "colum_width") {
			t.Errorf("error should name the key: %v", err)
		}
	})

	t.Run("bad orientation", func(t *testing.T) {
		path := writeConfig(t, "[layout]\norientation = \"diagonal\"\n")
		if _, err := Load(path); err == nil {
			t.Fatal("expected error for unknown orientation")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
		if !bwerrors.Is(err, bwerrors.ErrCodeFileNotFound) {
			t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
		}
	})
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("[container]\nwidth = 640\n"), 0644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(nested)

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Container.Width != 640 {
		t.Errorf("container.width = %v, want 640", cfg.Container.Width)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := Load(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load(\"\") = %v, want ErrNotFound", err)
	}
	cfg, err := LoadOrDefault("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != Defaults().Server.Addr {
		t.Errorf("LoadOrDefault did not return defaults: %+v", cfg.Server)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative column width", func(c *Config) { c.Layout.ColumnWidth = -1 }, "layout.column_width"},
		{"min above max", func(c *Config) { c.Layout.MinCols, c.Layout.MaxCols = 5, 3 }, "layout.min_cols"},
		{"negative container", func(c *Config) { c.Container.Height = -10 }, "container.height"},
		{"unknown format", func(c *Config) { c.Render.Formats = []string{"gif"} }, "render.formats"},
		{"zero scale", func(c *Config) { c.Render.Scale = 0 }, "render.scale"},
		{"bad palette", func(c *Config) { c.Render.Palette = []string{"red"} }, "render.palette"},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend, c.Cache.RedisAddr = CacheRedis, "" }, "cache.redis_addr"},
		{"bad ttl", func(c *Config) { c.Cache.TTL = "tomorrow" }, "cache.ttl"},
		{"unknown store", func(c *Config) { c.Server.Store = "sqlite" }, "server.store"},
		{"mongo without uri", func(c *Config) { c.Server.Store, c.Server.MongoURI = StoreMongo, "" }, "server.mongo_uri"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
			if !bwerrors.Is(err, bwerrors.ErrCodeInvalidConfig) {
				t.Errorf("code = %v, want %v", bwerrors.GetCode(err), bwerrors.ErrCodeInvalidConfig)
			}
		})
	}

	t.Run("all issues reported", func(t *testing.T) {
		cfg := Defaults()
		cfg.Render.Scale = 0
		cfg.Server.Addr = ""
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "render.scale") || !strings.Contains(err.Error(), "server.addr") {
			t.Errorf("Validate() = %v, want both issues", err)
		}
	})
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()

	path, err := InitFile(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("generated file does not validate: %v", err)
	}
	if cfg.Layout.ScanLimit != masonry.DefaultScanLimit {
		t.Errorf("scan_limit = %d, want %d", cfg.Layout.ScanLimit, masonry.DefaultScanLimit)
	}

	if _, err := InitFile(dir); err == nil {
		t.Error("InitFile should refuse to overwrite")
	}
}
