// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/flowdash/schema"
)

// DataSource fetches the raw records behind a customer's dashboard.
// This allows the pipelines to be tested without a live upstream API.
type DataSource interface {
	// FetchDataset returns the contract, demands, efforts and additional hours of a customer.
	FetchDataset(ctx context.Context, customer string) (*schema.Dataset, error)

	// Describe identifies the source, e.g. its endpoint or file path.
	// It is part of the dataset cache key.
	Describe() string
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetAnalysisStore() AnalysisStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// AnalysisStore defines the interface for tracking analysis runs and their series.
type AnalysisStore interface {
	// BeginAnalysis creates a new analysis run and returns its unique ID
	BeginAnalysis(startTime time.Time, metric schema.MetricKind, customer string, configParams map[string]any) (int64, error)

	// EndAnalysis updates the analysis run with completion data
	EndAnalysis(analysisID int64, endTime time.Time, totalPoints int) error

	// RecordSeriesPoints stores the points a run produced
	RecordSeriesPoints(analysisID int64, metric schema.MetricKind, points []schema.SeriesPoint) error

	// GetStatus returns status information about the analysis store
	GetStatus() (schema.AnalysisStatus, error)

	// GetAllAnalysisRuns returns every tracked run, oldest first
	GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error)

	// GetAllSeriesPoints returns every stored series point
	GetAllSeriesPoints() ([]schema.SeriesPointRecord, error)

	// Close closes the underlying connection
	Close() error
}
