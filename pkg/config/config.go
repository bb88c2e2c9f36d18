// Package config loads treesquares settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. Built-in defaults ([Default])
//  2. The TOML file at [Path], when it exists
//  3. A .env file in the working directory, loaded into the environment
//  4. TREESQUARES_* environment variables
//
// Command-line flags override all of them.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/treesquares/treesquares/pkg/buildinfo"
	"github.com/treesquares/treesquares/pkg/cache"
	"github.com/treesquares/treesquares/pkg/errors"
)

// AppName names the configuration and cache directories.
const AppName = "treesquares"

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "TREESQUARES_"

const (
	DefaultConcurrency   = 8
	DefaultAddr          = ":8080"
	DefaultMemoryEntries = 256
)

// Config holds the settings shared by every command.
type Config struct {
	// CacheDir holds cached API responses and rendered documents.
	CacheDir string `toml:"cache_dir"`
	// RedisURL, when set, replaces the file cache with Redis.
	RedisURL string `toml:"redis_url"`
	// CacheTTL bounds the age of cached API responses.
	CacheTTL time.Duration `toml:"cache_ttl"`
	// UserAgent identifies treesquares to Wikimedia.
	UserAgent string `toml:"user_agent"`
	// Concurrency bounds Wikipedia requests in flight.
	Concurrency int `toml:"concurrency"`
	// Addr is the listen address of the HTTP server.
	Addr string `toml:"addr"`
	// MemoryEntries bounds the server's in-memory document cache.
	MemoryEntries int `toml:"memory_entries"`
}

// Default returns the built-in settings.
func Default() Config {
	dir, _ := cache.DefaultDir(AppName)
	return Config{
		CacheDir:      dir,
		CacheTTL:      cache.TTLHTTP,
		UserAgent:     buildinfo.UserAgent(),
		Concurrency:   DefaultConcurrency,
		Addr:          DefaultAddr,
		MemoryEntries: DefaultMemoryEntries,
	}
}

// Path returns the configuration file: $TREESQUARES_CONFIG, else
// config.toml in the user configuration directory.
func Path() string {
	if p := os.Getenv(EnvPrefix + "CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// Load builds the configuration from defaults, the TOML file at path (""
// selects [Path]; a missing file is not an error), .env and the
// environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load .env")
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown key %s", path, undecoded[0])
	}
	return nil
}

// ApplyEnv overrides settings from TREESQUARES_* variables read through
// getenv. Empty variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	get := func(name string) string { return strings.TrimSpace(getenv(EnvPrefix + name)) }

	if v := get("CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := get("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := get("USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := get("ADDR"); v != "" {
		c.Addr = v
	}
	if v := get("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%sCACHE_TTL", EnvPrefix)
		}
		c.CacheTTL = d
	}
	for name, dst := range map[string]*int{"CONCURRENCY": &c.Concurrency, "MEMORY_ENTRIES": &c.MemoryEntries} {
		if v := get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s%s", EnvPrefix, name)
			}
			*dst = n
		}
	}
	return nil
}

// Validate checks the settings.
func (c Config) Validate() error {
	if c.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache_ttl must not be negative")
	}
	if c.RedisURL != "" && !strings.HasPrefix(c.RedisURL, "redis://") && !strings.HasPrefix(c.RedisURL, "rediss://") {
		return errors.New(errors.ErrCodeInvalidInput, "redis_url must use the redis:// or rediss:// scheme")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return errors.New(errors.ErrCodeInvalidInput, "user_agent must not be empty")
	}
	return nil
}
