// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"time"
)

// Gateway backends.
const (
	GatewayMemory   = "memory"
	GatewayPostgres = "postgres"
	GatewaySQLite   = "sqlite"
)

// Ranking store backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Gateway selects where contest data is read from: memory, postgres or sqlite.
	Gateway string `koanf:"gateway"`

	// SnapshotPath is an optional YAML snapshot loaded into the memory gateway.
	SnapshotPath string `koanf:"snapshot_path"`

	// DatabaseURL is the Postgres DSN used by the postgres gateway.
	DatabaseURL string `koanf:"database_url"`

	// SQLitePath is the database file used by the sqlite gateway.
	SQLitePath string `koanf:"sqlite_path"`

	// Cache selects the ranking store: memory or redis.
	Cache string `koanf:"cache"`

	RedisAddr string `koanf:"redis_addr"`
	RedisDB   int    `koanf:"redis_db"`

	// CacheTTLSeconds bounds how long a stored ranking is served. 0 keeps it forever.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// RankingSize caps every top view.
	RankingSize int `koanf:"ranking_size"`

	// MinVotes is the minimum attempts needed to enter an accuracy view.
	MinVotes int `koanf:"min_votes"`

	// RefreshIntervalSeconds schedules background refreshes. 0 disables them.
	RefreshIntervalSeconds int `koanf:"refresh_interval_seconds"`

	// MaxRankingLimit caps GET /rankings/{view}?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		Gateway:                GatewayMemory,
		SQLitePath:             "prode.db",
		Cache:                  CacheMemory,
		RedisAddr:              "localhost:6379",
		CacheTTLSeconds:        0,
		RankingSize:            10,
		MinVotes:               1,
		RefreshIntervalSeconds: 60,
		MaxRankingLimit:        100,
	}
}

// RefreshInterval returns the background refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSeconds) * time.Second
}

// CacheTTL returns how long stored rankings stay valid.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
