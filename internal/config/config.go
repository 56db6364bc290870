// Package config loads the service configuration: defaults, an optional
// JSON file merged on top, then environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/mitchellh/mapstructure"

	"eloqueue/internal/modules/matchmaker"
)

// RedisConfig parameterizes the broadcast publisher. Enabled false skips
// the publisher entirely.
type RedisConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled"`
	Addr     string `json:"addr" mapstructure:"addr"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db"`
}

// Config is the service-level configuration.
type Config struct {
	LogLevel  string `json:"log_level" mapstructure:"log_level"`
	LogFormat string `json:"log_format" mapstructure:"log_format"`

	HTTPAddr string `json:"http_addr" mapstructure:"http_addr"`
	DBPath   string `json:"db_path" mapstructure:"db_path"`

	// HandlerTimeoutSeconds bounds each side-effect handler invocation
	// (persistence write, publish).
	HandlerTimeoutSeconds int `json:"handler_timeout_seconds" mapstructure:"handler_timeout_seconds"`

	Redis      RedisConfig       `json:"redis" mapstructure:"redis"`
	MatchMaker matchmaker.Config `json:"matchmaker" mapstructure:"matchmaker"`
}

// Default returns the stock service configuration.
func Default() Config {
	return Config{
		LogLevel:              "info",
		LogFormat:             "text",
		HTTPAddr:              ":8080",
		DBPath:                "eloqueue.db",
		HandlerTimeoutSeconds: 5,
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		MatchMaker: matchmaker.DefaultConfig(),
	}
}

// Load builds the configuration: Default, merged with the JSON file at
// path when path is non-empty, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("unable to read config file %q: %w", path, err)
		}
		var overrides map[string]any
		if err := json.Unmarshal(raw, &overrides); err != nil {
			return cfg, fmt.Errorf("unable to parse config file %q: %w", path, err)
		}
		// JSON numbers arrive as float64; the decoder has to coerce them
		// into the int fields.
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return cfg, fmt.Errorf("unable to build config decoder: %w", err)
		}
		if err := decoder.Decode(overrides); err != nil {
			return cfg, fmt.Errorf("unable to apply config file %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ELOQUEUE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ELOQUEUE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("ELOQUEUE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("ELOQUEUE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("ELOQUEUE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("ELOQUEUE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("ELOQUEUE_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
}
