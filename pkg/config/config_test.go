package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/treesquares/treesquares/pkg/errors"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(env(map[string]string{
		"TREESQUARES_CACHE_DIR":      "/tmp/ts",
		"TREESQUARES_REDIS_URL":      "redis://localhost:6379/0",
		"TREESQUARES_USER_AGENT":     "kaj-test/1.0",
		"TREESQUARES_CONCURRENCY":    " 3 ",
		"TREESQUARES_CACHE_TTL":      "90m",
		"TREESQUARES_ADDR":           ":9000",
		"TREESQUARES_MEMORY_ENTRIES": "10",
	}))
	if err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	want := Config{
		CacheDir:      "/tmp/ts",
		RedisURL:      "redis://localhost:6379/0",
		CacheTTL:      90 * time.Minute,
		UserAgent:     "kaj-test/1.0",
		Concurrency:   3,
		Addr:          ":9000",
		MemoryEntries: 10,
	}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"concurrency", map[string]string{"TREESQUARES_CONCURRENCY": "many"}},
		{"ttl", map[string]string{"TREESQUARES_CACHE_TTL": "a day"}},
		{"memory", map[string]string{"TREESQUARES_MEMORY_ENTRIES": "1e3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.ApplyEnv(env(tt.vars)); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"redis scheme", func(c *Config) { c.RedisURL = "http://localhost" }, true},
		{"rediss", func(c *Config) { c.RedisURL = "rediss://cache:6380" }, false},
		{"blank user agent", func(c *Config) { c.UserAgent = " " }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "concurrency = 4\ncache_ttl = \"2h\"\naddr = \":7000\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TREESQUARES_ADDR", ":7100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != 4 || cfg.CacheTTL != 2*time.Hour {
		t.Errorf("file settings not applied: %+v", cfg)
	}
	if cfg.Addr != ":7100" {
		t.Errorf("addr = %q, environment should win over the file", cfg.Addr)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want default", cfg.Concurrency)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("concurency = 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("TREESQUARES_CONFIG", "/etc/treesquares.toml")
	if got := Path(); got != "/etc/treesquares.toml" {
		t.Errorf("Path = %q", got)
	}
}
