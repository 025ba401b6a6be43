// Package config loads command-line settings from defaults, an optional YAML
// file and FILECONV_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Stats backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config is the full command configuration.
type Config struct {
	User          string        `yaml:"user"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Log           LogConfig     `yaml:"log"`
	Stats         StatsConfig   `yaml:"stats"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

type StatsConfig struct {
	Backend string      `yaml:"backend"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		User:          "local",
		SweepInterval: time.Minute,
		Log:           LogConfig{Level: "info", Format: "console"},
		Stats: StatsConfig{
			Backend: BackendMemory,
			Redis:   RedisConfig{Addr: "localhost:6379", Prefix: "fileconv:stats:"},
		},
	}
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString(&c.User, "FILECONV_USER")
	setString(&c.Log.Level, "FILECONV_LOG_LEVEL")
	setString(&c.Log.Format, "FILECONV_LOG_FORMAT")
	setString(&c.Stats.Backend, "FILECONV_STATS_BACKEND")
	setString(&c.Stats.Redis.Addr, "FILECONV_REDIS_ADDR")
	setString(&c.Stats.Redis.Password, "FILECONV_REDIS_PASSWORD")
	setString(&c.Stats.Redis.Prefix, "FILECONV_REDIS_PREFIX")

	var errs []error
	if v := os.Getenv("FILECONV_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FILECONV_REDIS_DB: %w", err))
		}
		c.Stats.Redis.DB = db
	}
	if v := os.Getenv("FILECONV_SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("FILECONV_SWEEP_INTERVAL: %w", err))
		}
		c.SweepInterval = d
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.User, validation.Required),
		validation.Field(&c.SweepInterval, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.Log),
		validation.Field(&c.Stats),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.Required, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.Required, validation.In("json", "console")),
	)
}

func (s StatsConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Backend, validation.Required, validation.In(BackendMemory, BackendRedis)),
		validation.Field(&s.Redis, validation.Skip.When(s.Backend != BackendRedis)),
	)
}

func (r RedisConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Addr, validation.Required),
		validation.Field(&r.DB, validation.Min(0)),
	)
}
