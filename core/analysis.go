package core

import (
	"context"
	"time"

	"github.com/huangsam/flowdash/core/agg"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/outwriter"
	"github.com/huangsam/flowdash/schema"
)

// runPipeline performs the common Header, Tracking, Fetch and Build steps of every metric.
// build turns the fetched dataset into a result plus the series points worth tracking.
func runPipeline[T any](ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager, metric schema.MetricKind, build func(*schema.Dataset, *contract.Config) (T, []schema.SeriesPoint, error)) (T, time.Duration, error) {
	start := time.Now()
	var zero T

	if !shouldSuppressHeader(ctx) {
		outwriter.LogRunHeader(cfg, metric)
	}

	// --- 0. Begin Analysis Tracking (if configured) ---
	run := beginTracking(cfg, metric, mgr, start)

	// --- 1. Fetch Phase (with caching) ---
	ds, err := agg.CachedFetchDataset(ctx, cfg, src, mgr)
	if err != nil {
		run.end(nil)
		return zero, 0, err
	}

	// --- 2. Build Phase ---
	result, points, err := build(ds, cfg)
	if err != nil {
		run.end(nil)
		return zero, 0, err
	}

	// --- 3. End Analysis Tracking ---
	run.end(points)

	return result, time.Since(start), nil
}

// trackedRun is a run registered in the analysis store.
type trackedRun struct {
	store  contract.AnalysisStore
	id     int64
	metric schema.MetricKind
}

// beginTracking registers the run when an analysis store is configured.
// A nil run is returned otherwise, and every method on it is a no-op.
func beginTracking(cfg *contract.Config, metric schema.MetricKind, mgr contract.CacheManager, start time.Time) *trackedRun {
	if mgr == nil {
		return nil
	}
	store := mgr.GetAnalysisStore()
	if store == nil {
		return nil
	}
	configParams := map[string]any{
		"source":     string(cfg.Source),
		"scope_date": string(cfg.ScopeDate),
		"locale":     string(cfg.Locale),
		"now":        cfg.Now.Format(contract.DateTimeFormat),
	}
	id, err := store.BeginAnalysis(start, metric, cfg.Customer, configParams)
	if err != nil {
		contract.LogWarn("Analysis tracking initialization failed", err)
		return nil
	}
	if id <= 0 {
		return nil
	}
	return &trackedRun{store: store, id: id, metric: metric}
}

// end stores the produced points and closes the run.
func (r *trackedRun) end(points []schema.SeriesPoint) {
	if r == nil {
		return
	}
	if len(points) > 0 {
		if err := r.store.RecordSeriesPoints(r.id, r.metric, points); err != nil {
			contract.LogWarn("Failed to record series points", err)
		}
	}
	if err := r.store.EndAnalysis(r.id, time.Now(), len(points)); err != nil {
		contract.LogWarn("Failed to finalize analysis tracking", err)
	}
}
