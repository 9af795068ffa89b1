package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the whole service configuration, loaded from an optional yaml
// file with MATCHMATES_* environment overrides.
type Config struct {
	Listen      string        `mapstructure:"listen"`
	DatabaseURL string        `mapstructure:"database-url"`
	RedisAddr   string        `mapstructure:"redis-addr"`
	JWTSecret   string        `mapstructure:"jwt-secret"`
	SessionTTL  time.Duration `mapstructure:"session-ttl"`
	JSONLogs    bool          `mapstructure:"json-logs"`
	Debug       bool          `mapstructure:"debug"`

	// DevMode swaps every store for an in-memory one; no Postgres or Redis
	// needed.
	DevMode bool `mapstructure:"dev-mode"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen", ":8080")
	// Defaults double as key registrations so AutomaticEnv picks these up
	// during Unmarshal.
	v.SetDefault("database-url", "")
	v.SetDefault("redis-addr", "")
	v.SetDefault("jwt-secret", "")
	v.SetDefault("session-ttl", 24*time.Hour)
	v.SetDefault("json-logs", false)
	v.SetDefault("debug", false)
	v.SetDefault("dev-mode", false)

	v.SetEnvPrefix("MATCHMATES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt-secret is required (MATCHMATES_JWT_SECRET)")
	}
	if !cfg.DevMode && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database-url is required outside dev mode")
	}
	return &cfg, nil
}
