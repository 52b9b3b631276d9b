package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// Config - File-based CLI Configuration
// =============================================================================

// Config holds the CLI settings read from the config file. Flags override
// config values, environment variables sit in between (see cacheDir and
// redisAddr). A missing config file yields the zero Config.
type Config struct {
	// DefaultStrategy is used by build and layout when --strategy is not given.
	DefaultStrategy string `toml:"default_strategy"`

	// DefaultRegion tags resources whose inventory carries no region.
	DefaultRegion string `toml:"default_region"`

	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
	Collect CollectConfig `toml:"collect"`
}

// CacheConfig selects and places the cache backend.
type CacheConfig struct {
	// Dir overrides the on-disk cache location.
	Dir string `toml:"dir"`

	// RedisAddr switches the cache to Redis at host:port.
	RedisAddr string `toml:"redis_addr"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CollectConfig holds defaults for the collect command.
type CollectConfig struct {
	Profile string   `toml:"profile"`
	Regions []string `toml:"regions"`
}

// =============================================================================
// Loading
// =============================================================================

// LoadConfig reads the config file from CLOUDWEAVE_CONFIG or the platform
// config directory (~/.config/cloudweave/config.toml on Linux). A missing
// file is not an error; a malformed one is.
func LoadConfig() (Config, error) {
	path := os.Getenv("CLOUDWEAVE_CONFIG")
	if path == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			// No resolvable home. Run on defaults.
			return Config{}, nil
		}
		path = filepath.Join(base, appName, "config.toml")
	}
	return loadConfigFile(path)
}

func loadConfigFile(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
