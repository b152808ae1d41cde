package gateway

import (
	"context"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
)

// Memory serves a snapshot held in process memory. It is safe for concurrent
// use; Import swaps the whole dataset atomically.
type Memory struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewMemory returns a Memory gateway serving snap.
func NewMemory(snap Snapshot) *Memory {
	return &Memory{snap: clone(snap)}
}

// Import replaces the served dataset.
func (m *Memory) Import(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	m.snap = clone(snap)
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the served dataset.
func (m *Memory) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.snap)
}

// ListUsers returns every registered user.
func (m *Memory) ListUsers(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.snap.Users), nil
}

// ListEvents returns every event in snapshot order.
func (m *Memory) ListEvents(ctx context.Context) ([]model.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.snap.Events), nil
}

// ListForecastsForEvent returns the forecasts placed on eventID.
func (m *Memory) ListForecastsForEvent(ctx context.Context, eventID string) ([]model.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Filter(m.snap.Forecasts, func(f model.Forecast, _ int) bool { return f.EventID == eventID }), nil
}

// ListAllForecasts returns every forecast in one fetch.
func (m *Memory) ListAllForecasts(ctx context.Context) ([]model.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.snap.Forecasts), nil
}

// ListResults returns every published official result.
func (m *Memory) ListResults(ctx context.Context) ([]model.OfficialResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.snap.Results), nil
}

// GetScoringPolicyOverrides returns the stored policy overrides, or nil when none are stored.
func (m *Memory) GetScoringPolicyOverrides(ctx context.Context) (*scoring.PolicyOverrides, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.snap.Policy == nil {
		return nil, nil
	}
	p := *m.snap.Policy
	return &p, nil
}

// clone copies the slices so callers cannot mutate the served data. Position
// slices are shared; nothing in the read path writes to them.
func clone(s Snapshot) Snapshot {
	out := Snapshot{
		Users:     slices.Clone(s.Users),
		Pilots:    slices.Clone(s.Pilots),
		Events:    slices.Clone(s.Events),
		Forecasts: slices.Clone(s.Forecasts),
		Results:   slices.Clone(s.Results),
	}
	if s.Policy != nil {
		p := *s.Policy
		out.Policy = &p
	}
	return out
}

// LoadSnapshotFile decodes a YAML snapshot from path.
func LoadSnapshotFile(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %w", ErrInvalidSnapshot, path, err)
	}
	return snap, nil
}

// SaveSnapshotFile writes snap to path as YAML.
func SaveSnapshotFile(path string, snap Snapshot) error {
	raw, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}
