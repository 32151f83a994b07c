package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/statuscard/pkg/fonts"
)

// Config is the TOML configuration file. Every field has a workable zero
// value so a missing file just means defaults; flags override file values
// where a command exposes them.
type Config struct {
	Steam   SteamConfig   `toml:"steam"`
	Fonts   fonts.Config  `toml:"fonts"`
	Assets  AssetsConfig  `toml:"assets"`
	Storage StorageConfig `toml:"storage"`
	Render  RenderConfig  `toml:"render"`
}

// SteamConfig configures the Steam clients.
type SteamConfig struct {
	// APIKeys are tried in order; see pkg/steam key rotation.
	APIKeys []string `toml:"api_keys"`

	// Proxy routes Steam requests through the given URL.
	Proxy string `toml:"proxy"`
}

// AssetsConfig points at optional card decorations (badges, header art).
type AssetsConfig struct {
	Dir string `toml:"dir"`
}

// StorageConfig selects the bindings backend and the cache location.
type StorageConfig struct {
	// Backend is "file" (default) or "mongo".
	Backend       string `toml:"backend"`
	DataDir       string `toml:"data_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`

	// RedisAddr switches the byte cache from files to Redis.
	RedisAddr string `toml:"redis_addr"`
}

// RenderConfig tunes the render cache.
type RenderConfig struct {
	// CacheTTL is a duration string like "10m"; empty means the pipeline
	// default.
	CacheTTL string `toml:"cache_ttl"`
}

// TTL parses CacheTTL, returning 0 (pipeline default) when unset or
// invalid.
func (r RenderConfig) TTL() time.Duration {
	if r.CacheTTL == "" {
		return 0
	}
	d, err := time.ParseDuration(r.CacheTTL)
	if err != nil {
		return 0
	}
	return d
}

// LoadConfig reads the config at path, or the default location when path
// is empty. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return defaultConfig(), nil
		}
		path = p
	}

	cfg := defaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:       "file",
			MongoDatabase: appName,
		},
	}
}

func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
