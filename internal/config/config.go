package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment variables overriding file values.
const EnvPrefix = "WATERJUG_"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the service configuration.
// Precedence: defaults < YAML file < environment.
type Config struct {
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Server      ServerConfig  `yaml:"server" mapstructure:"server"`
	Log         LogConfig     `yaml:"log" mapstructure:"log"`
	Cache       CacheConfig   `yaml:"cache" mapstructure:"cache"`
	Redis       RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Metrics     MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

type ServerConfig struct {
	Port              int           `yaml:"port" mapstructure:"port"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout" mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type CacheConfig struct {
	Backend  string        `yaml:"backend" mapstructure:"backend"`
	Absolute time.Duration `yaml:"absolute_ttl" mapstructure:"absolute_ttl"`
	Sliding  time.Duration `yaml:"sliding_ttl" mapstructure:"sliding_ttl"`
	// PruneInterval is how often the memory backend drops expired entries.
	PruneInterval time.Duration `yaml:"prune_interval" mapstructure:"prune_interval"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
	Prefix   string `yaml:"prefix" mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Environment: "Production",
		Server: ServerConfig{
			Port:              8080,
			ShutdownTimeout:   5 * time.Second,
			RequestTimeout:    30 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      35 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Cache: CacheConfig{
			Backend:  CacheMemory,
			Absolute:      time.Hour,
			Sliding:       30 * time.Minute,
			PruneInterval: 5 * time.Minute,
		},
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "waterjug:",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration from the defaults, the YAML file at path
// (skipped when path is empty) and WATERJUG_* environment variables.
func Load(path string) (*Config, error) {
	return load(path, os.Environ())
}

func load(path string, environ []string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if err := decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	if overrides := envOverrides(environ); len(overrides) > 0 {
		if err := decode(overrides, &cfg); err != nil {
			return nil, fmt.Errorf("invalid environment override: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decode applies input on top of cfg. Keys missing from input keep their
// current value; unknown keys are rejected.
func decode(input map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

var sections = map[string]bool{
	"environment": true,
	"server":      true,
	"log":         true,
	"cache":       true,
	"redis":       true,
	"metrics":     true,
}

// envOverrides turns WATERJUG_SECTION_KEY=value into {"section": {"key": value}}.
// Only the first underscore separates section from key, so
// WATERJUG_CACHE_SLIDING_TTL maps to cache.sliding_ttl.
func envOverrides(environ []string) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		section, field, nested := strings.Cut(key, "_")
		if !sections[section] {
			continue
		}
		if !nested {
			out[key] = value
			continue
		}
		m, ok := out[section].(map[string]any)
		if !ok {
			m = make(map[string]any)
			out[section] = m
		}
		m[field] = value
	}
	return out
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port out of range: %d", c.Server.Port))
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		problems = append(problems, fmt.Sprintf("cache.backend must be memory, redis or none, got %q", c.Cache.Backend))
	}
	if c.Cache.Absolute < 0 || c.Cache.Sliding < 0 || c.Cache.PruneInterval < 0 {
		problems = append(problems, "cache durations must not be negative")
	}
	s := c.Server
	if s.RequestTimeout < 0 || s.ReadHeaderTimeout < 0 || s.WriteTimeout < 0 || s.IdleTimeout < 0 {
		problems = append(problems, "server timeouts must not be negative")
	}
	if s.RequestTimeout > 0 && s.WriteTimeout > 0 && s.WriteTimeout <= s.RequestTimeout {
		problems = append(problems, fmt.Sprintf("server.write_timeout (%s) must exceed server.request_timeout (%s)", s.WriteTimeout, s.RequestTimeout))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
