package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/flowdash/internal/iocache"
	"github.com/huangsam/flowdash/internal/source"
	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newUntrackedManager returns a cache manager with neither a dataset cache nor an analysis store.
func newUntrackedManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)
	return mgr
}

func newSampleSource() *source.MockDataSource {
	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, "acme").Return(sampleDataset(), nil)
	return src
}

func TestGetHoursBurnupResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	src := newSampleSource()
	mgr := newUntrackedManager()

	result, duration, err := GetHoursBurnupResults(ctx, sampleConfig(), src, mgr)
	require.NoError(t, err)
	assert.Len(t, result.Series, 5)
	assert.Equal(t, schema.BehindPace, result.Status)
	assert.GreaterOrEqual(t, duration.Nanoseconds(), int64(0))

	src.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

func TestGetHoursBurnupResults_Tracked(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	src := newSampleSource()

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, schema.HoursBurnupMetric, "acme", mock.MatchedBy(func(params map[string]any) bool {
		return params["locale"] == "en" && params["scope_date"] == "commitment"
	})).Return(int64(7), nil)
	store.On("RecordSeriesPoints", int64(7), schema.HoursBurnupMetric, mock.MatchedBy(func(points []schema.SeriesPoint) bool {
		return len(points) == 5 && points[4].Value == 35 && points[4].TotalScope == 100
	})).Return(nil)
	store.On("EndAnalysis", int64(7), mock.Anything, 5).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	_, _, err := GetHoursBurnupResults(ctx, sampleConfig(), src, mgr)
	require.NoError(t, err)

	store.AssertExpectations(t)
}

func TestGetHoursBurnupResults_TrackingFailureDoesNotAbort(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	src := newSampleSource()

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, schema.HoursBurnupMetric, "acme", mock.Anything).Return(int64(0), errors.New("db down"))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	result, _, err := GetHoursBurnupResults(ctx, sampleConfig(), src, mgr)
	require.NoError(t, err)
	assert.NotNil(t, result)

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "EndAnalysis", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetHoursBurnupResults_FetchError(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, "acme").Return(nil, errors.New("connection refused"))
	src.On("Describe").Return("graphql:https://api.example.com/graphql")

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, schema.HoursBurnupMetric, "acme", mock.Anything).Return(int64(3), nil)
	store.On("EndAnalysis", int64(3), mock.Anything, 0).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	result, _, err := GetHoursBurnupResults(ctx, sampleConfig(), src, mgr)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "failed to fetch dataset from graphql:https://api.example.com/graphql")
	assert.Contains(t, err.Error(), "connection refused")

	store.AssertExpectations(t)
	store.AssertNotCalled(t, "RecordSeriesPoints", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetDemandBurnupResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	result, _, err := GetDemandBurnupResults(ctx, sampleConfig(), newSampleSource(), newUntrackedManager())
	require.NoError(t, err)
	assert.Equal(t, schema.DemandBurnupMetric, result.Metric)
	assert.Equal(t, 3.0, result.FinalScope)
}

func TestGetLeadTimeResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	store := &iocache.MockAnalysisStore{}
	store.On("BeginAnalysis", mock.Anything, schema.LeadTimesMetric, "acme", mock.Anything).Return(int64(11), nil)
	store.On("RecordSeriesPoints", int64(11), schema.LeadTimesMetric, []schema.SeriesPoint{
		{Seq: 0, Label: "07/01/2024", Value: 0},
		{Seq: 1, Label: "14/01/2024", Value: 7},
	}).Return(nil)
	store.On("EndAnalysis", int64(11), mock.Anything, 2).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(store)

	result, _, err := GetLeadTimeResults(ctx, sampleConfig(), newSampleSource(), mgr)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Summary.Count)

	store.AssertExpectations(t)
}

func TestGetMonthlyResults(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	result, _, err := GetMonthlyResults(ctx, sampleConfig(), newSampleSource(), newUntrackedManager())
	require.NoError(t, err)
	assert.Len(t, result.Months, 2)
	assert.Equal(t, 35.0, result.Total)
}

func TestGetMonthlyResults_NoContract(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())
	ds := sampleDataset()
	ds.Contract = nil

	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, "acme").Return(ds, nil)

	_, _, err := GetMonthlyResults(ctx, sampleConfig(), src, newUntrackedManager())
	assert.ErrorIs(t, err, ErrNoContract)
}

func TestRunPipeline_NilManager(t *testing.T) {
	ctx := WithSuppressHeader(context.Background())

	result, _, err := GetLeadTimeResults(ctx, sampleConfig(), newSampleSource(), nil)
	require.NoError(t, err)
	assert.Equal(t, "acme", result.Customer)
}

func TestShouldSuppressHeader(t *testing.T) {
	assert.False(t, shouldSuppressHeader(context.Background()))
	assert.True(t, shouldSuppressHeader(WithSuppressHeader(context.Background())))
}
