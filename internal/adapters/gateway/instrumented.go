package gateway

import (
	"context"
	"time"

	"github.com/JetxcheDev/f1-prode/internal/domain/model"
	"github.com/JetxcheDev/f1-prode/internal/domain/scoring"
	"github.com/JetxcheDev/f1-prode/pkg/metrics"
)

// Instrumented records per-collection latency and failures for every read.
type Instrumented struct {
	next Gateway
}

// Instrument wraps g with metrics.
func Instrument(g Gateway) *Instrumented {
	return &Instrumented{next: g}
}

func observe[T any](collection string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	metrics.RecordGatewayFetch(collection, float64(time.Since(start).Microseconds())/1000, err)
	return v, err
}

func (i *Instrumented) ListUsers(ctx context.Context) ([]model.User, error) {
	return observe(CollectionUsers, func() ([]model.User, error) { return i.next.ListUsers(ctx) })
}

func (i *Instrumented) ListEvents(ctx context.Context) ([]model.Event, error) {
	return observe(CollectionEvents, func() ([]model.Event, error) { return i.next.ListEvents(ctx) })
}

func (i *Instrumented) ListForecastsForEvent(ctx context.Context, eventID string) ([]model.Forecast, error) {
	return observe(CollectionForecasts, func() ([]model.Forecast, error) { return i.next.ListForecastsForEvent(ctx, eventID) })
}

func (i *Instrumented) ListAllForecasts(ctx context.Context) ([]model.Forecast, error) {
	return observe(CollectionForecasts, func() ([]model.Forecast, error) { return i.next.ListAllForecasts(ctx) })
}

func (i *Instrumented) ListResults(ctx context.Context) ([]model.OfficialResult, error) {
	return observe(CollectionResults, func() ([]model.OfficialResult, error) { return i.next.ListResults(ctx) })
}

func (i *Instrumented) GetScoringPolicyOverrides(ctx context.Context) (*scoring.PolicyOverrides, error) {
	return observe(CollectionPolicy, func() (*scoring.PolicyOverrides, error) { return i.next.GetScoringPolicyOverrides(ctx) })
}
