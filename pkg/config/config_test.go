package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/swimlane/pkg/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Store.Backend != BackendMemory {
		t.Errorf("expected store backend 'memory', got %q", cfg.Store.Backend)
	}
	if cfg.Interaction.Drag != 5 || cfg.Interaction.Snap != 24 {
		t.Errorf("unexpected thresholds %+v", cfg.Interaction)
	}
	if cfg.Server.SessionTTL != 30*time.Minute {
		t.Errorf("expected session ttl 30m, got %v", cfg.Server.SessionTTL)
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	dir := ConfigDir()
	if dir != "/tmp/test-xdg/swimlane" {
		t.Errorf("expected /tmp/test-xdg/swimlane, got %q", dir)
	}

	// Test without XDG_CONFIG_HOME
	t.Setenv("XDG_CONFIG_HOME", "")
	dir = ConfigDir()
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "swimlane")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected defaults, got addr %q", cfg.Server.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[lanes]
gap = 20
default_height = 120

[interaction]
snap_radius = 30

[store]
backend = "redis"
redis_addr = "cache:6379"

[server]
session_ttl = "45m"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Lanes.Gap != 20 || cfg.Lanes.DefaultHeight != 120 {
		t.Errorf("lanes = %+v", cfg.Lanes)
	}
	if cfg.Lanes.HeaderWidth != 40 {
		t.Errorf("unset key lost its default: header_width = %v", cfg.Lanes.HeaderWidth)
	}
	if cfg.Interaction.Snap != 30 || cfg.Interaction.Drag != 5 {
		t.Errorf("interaction = %+v", cfg.Interaction)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.RedisAddr != "cache:6379" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.SessionTTL != 45*time.Minute {
		t.Errorf("session ttl = %v", cfg.Server.SessionTTL)
	}
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "[lanes]\nheigth = 3\n"},
		{"unknown backend", "[store]\nbackend = \"etcd\"\n"},
		{"zero threshold", "[interaction]\ndrag_threshold = 0\n"},
		{"bad syntax", "[lanes\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode([]byte(tt.data), Default())
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SWIMLANE_STORE":     "mongo",
		"SWIMLANE_MONGO_URI": "mongodb://db:27017",
		"SWIMLANE_ADDR":      "",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	if cfg.Store.Backend != BackendMongo || cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("empty env value overrode addr: %q", cfg.Server.Addr)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Lanes.Gap = 16
	cfg.Store.Backend = BackendFile

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Lanes.Gap != 16 {
		t.Errorf("expected gap 16, got %v", loaded.Lanes.Gap)
	}
	if loaded.Store.Backend != BackendFile {
		t.Errorf("expected backend file, got %q", loaded.Store.Backend)
	}
}
