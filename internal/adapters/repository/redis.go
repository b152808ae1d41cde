package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JetxcheDev/f1-prode/pkg/metrics"
)

// RedisStore keeps the latest record as JSON under a single key so every
// replica serves the same rankings.
type RedisStore struct {
	client redis.UniversalClient
	cfg    settings
}

// NewRedisStore uses client to hold the record.
func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	return &RedisStore{client: client, cfg: newSettings(opts)}
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	start := time.Now()
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrStore, err)
	}
	err = s.client.Set(ctx, s.cfg.key, raw, s.cfg.ttl).Err()
	metrics.RecordStoreOp("save", elapsedMs(start), err)
	if err != nil {
		return fmt.Errorf("%w: set %s: %w", ErrStore, s.cfg.key, err)
	}
	return nil
}

func (s *RedisStore) Latest(ctx context.Context) (Record, error) {
	start := time.Now()
	raw, err := s.client.Get(ctx, s.cfg.key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordStoreOp("get", elapsedMs(start), nil)
		metrics.RecordStoreMiss()
		return Record{}, ErrNotFound
	}
	metrics.RecordStoreOp("get", elapsedMs(start), err)
	if err != nil {
		return Record{}, fmt.Errorf("%w: get %s: %w", ErrStore, s.cfg.key, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	metrics.RecordStoreHit()
	return rec, nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.cfg.key).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %w", ErrStore, s.cfg.key, err)
	}
	return nil
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %w", ErrStore, err)
	}
	return nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
