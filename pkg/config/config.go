// Package config loads swimlane's TOML configuration.
//
// Configuration is read from $XDG_CONFIG_HOME/swimlane/config.toml (or
// ~/.config/swimlane/config.toml) unless a path is given explicitly. Every
// section is optional; missing keys keep their defaults.
//
//	[lanes]
//	gap = 10
//	default_height = 160
//
//	[interaction]
//	drag_threshold = 5
//	snap_radius = 24
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/swimlane/pkg/errors"
	"github.com/matzehuels/swimlane/pkg/interaction"
	"github.com/matzehuels/swimlane/pkg/lanes"
	"github.com/matzehuels/swimlane/pkg/scene"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists the supported store backends.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config holds swimlane configuration.
type Config struct {
	Lanes       lanes.Config           `toml:"lanes"`
	Nodes       scene.Geometry         `toml:"nodes"`
	Interaction interaction.Thresholds `toml:"interaction"`
	Store       StoreConfig            `toml:"store"`
	Server      ServerConfig           `toml:"server"`
	Log         LogConfig              `toml:"log"`
}

// StoreConfig selects and configures the diagram store.
type StoreConfig struct {
	Backend string `toml:"backend"` // "memory", "file", "redis", "mongo"

	// Dir is the root directory of the file backend.
	Dir string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// Timeout bounds each store operation.
	Timeout time.Duration `toml:"timeout"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	SessionTTL   time.Duration `toml:"session_ttl"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	Metrics      bool          `toml:"metrics"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Lanes:       lanes.DefaultConfig(),
		Nodes:       scene.DefaultGeometry(),
		Interaction: interaction.DefaultThresholds(),
		Store: StoreConfig{
			Backend:         BackendMemory,
			Dir:             filepath.Join(DataDir(), "diagrams"),
			RedisAddr:       "localhost:6379",
			RedisPrefix:     "swimlane:",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   "swimlane",
			MongoCollection: "diagrams",
			Timeout:         5 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			SessionTTL:   30 * time.Minute,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			Metrics:      true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// ConfigDir returns the swimlane config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "swimlane")
}

// DataDir returns the swimlane data directory path.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "swimlane")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path on top of the defaults. An empty path
// means [Path]; a missing default file yields the defaults, while a missing
// explicit file is an error. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := Decode(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Decode unmarshals TOML data into cfg, rejecting unknown keys and invalid
// values.
func Decode(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "parse")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errs.New(errs.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Lanes.DefaultHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "lanes.default_height must be positive")
	}
	if c.Lanes.Gap < 0 || c.Lanes.HeaderWidth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "lanes.gap and lanes.header_width must not be negative")
	}
	if c.Nodes.NodeWidth <= 0 || c.Nodes.NodeHeight <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "nodes.width and nodes.height must be positive")
	}
	th := c.Interaction
	if th.Drag <= 0 || th.Click <= 0 || th.Snap <= 0 || th.EdgeHit <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "interaction thresholds must be positive")
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "store.backend %q is not one of %s", c.Store.Backend, strings.Join(Backends, ", "))
	}
	if c.Server.SessionTTL <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "server.session_ttl must be positive")
	}
	return nil
}

// ApplyEnv overrides selected settings from the environment:
// SWIMLANE_STORE, SWIMLANE_REDIS_ADDR, SWIMLANE_MONGO_URI, SWIMLANE_ADDR and
// SWIMLANE_LOG_LEVEL.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	set := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	set("SWIMLANE_STORE", &c.Store.Backend)
	set("SWIMLANE_REDIS_ADDR", &c.Store.RedisAddr)
	set("SWIMLANE_MONGO_URI", &c.Store.MongoURI)
	set("SWIMLANE_ADDR", &c.Server.Addr)
	set("SWIMLANE_LOG_LEVEL", &c.Log.Level)
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
