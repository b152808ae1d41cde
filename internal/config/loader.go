package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PRODE_"

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PRODE_CONFIG is set
//  3. env (prefix PRODE_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PRODE_REDIS_ADDR -> redis_addr (flat keys, underscores kept)
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges and backend-specific requirements.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RankingSize < 1:
		return fmt.Errorf("%w: ranking_size must be positive", ErrInvalidConfig)
	case c.MinVotes < 1:
		return fmt.Errorf("%w: min_votes must be positive", ErrInvalidConfig)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	case c.RefreshIntervalSeconds < 0 || c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalidConfig)
	}

	switch c.Gateway {
	case GatewayMemory:
	case GatewayPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for the postgres gateway", ErrInvalidConfig)
		}
	case GatewaySQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite gateway", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown gateway %q", ErrInvalidConfig, c.Gateway)
	}

	switch c.Cache {
	case CacheMemory:
	case CacheRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("%w: redis_addr is required for the redis cache", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache %q", ErrInvalidConfig, c.Cache)
	}
	return nil
}
