package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Backend names for the state store.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds everything an App instance needs to run.
type Config struct {
	// DocPath is the markup document to parse and inspect.
	DocPath string
	// LogFormat is "text" or "json".
	LogFormat string
	// LogLevel is "debug", "info", "warn", or "error".
	LogLevel string
	// Backend selects the state store: "memory" or "redis".
	Backend string
	// RedisAddr is the Redis address when Backend is "redis".
	RedisAddr string
}

// NewConfig validates a Config and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	switch cfg.Backend {
	case BackendMemory:
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("backend %q requires a redis address", cfg.Backend)
		}
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
	return &cfg, nil
}

// fileConfig is the YAML shape of an optional config file.
type fileConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Backend   struct {
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr string `yaml:"addr"`
		} `yaml:"redis"`
	} `yaml:"backend"`
}

// ApplyFile overlays settings from a YAML config file onto cfg. Values
// already set (e.g. from flags) win over the file.
func ApplyFile(cfg Config, path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = fc.LogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = fc.LogFormat
	}
	if cfg.Backend == "" {
		cfg.Backend = fc.Backend.Kind
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = fc.Backend.Redis.Addr
	}
	return cfg, nil
}
