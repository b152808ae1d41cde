package repository

import (
	"context"
	"sync"
	"time"

	"github.com/JetxcheDev/f1-prode/pkg/metrics"
)

// MemoryStore keeps the latest record in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	rec     Record
	savedAt time.Time
	has     bool
	cfg     settings
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{cfg: newSettings(opts)}
}

func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	start := time.Now()
	s.mu.Lock()
	s.rec = rec
	s.savedAt = s.cfg.now()
	s.has = true
	s.mu.Unlock()
	metrics.RecordStoreOp("save", elapsedMs(start), nil)
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.has || (s.cfg.ttl > 0 && s.cfg.now().Sub(s.savedAt) >= s.cfg.ttl) {
		metrics.RecordStoreMiss()
		return Record{}, ErrNotFound
	}
	metrics.RecordStoreHit()
	return s.rec, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	s.rec = Record{}
	s.has = false
	s.mu.Unlock()
	return nil
}
