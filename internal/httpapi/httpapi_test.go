package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/iocache"
	"github.com/huangsam/flowdash/internal/source"
	"github.com/huangsam/flowdash/schema"
	"github.com/labstack/echo/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testDataset(customer string) *schema.Dataset {
	return &schema.Dataset{
		Customer: customer,
		Contract: &schema.ContractRecord{
			StartDate:    "2024-01-01",
			EndDate:      "2024-01-31",
			TotalHours:   lo.ToPtr(100.0),
			InitialScope: lo.ToPtr(1.0),
		},
		Demands: []schema.DemandRecord{
			{ID: "A", CommitmentDate: lo.ToPtr("2024-01-02"), EndDate: lo.ToPtr("2024-01-09")},
			{ID: "B", CommitmentDate: lo.ToPtr("2024-01-03"), EndDate: lo.ToPtr("2024-01-13")},
		},
		DemandEfforts: []schema.EffortRecord{
			{EffortValue: 10, StartTimeToComputation: "2024-01-03T12:00:00Z"},
			{EffortValue: 20, StartTimeToComputation: "2024-01-10T12:00:00Z"},
		},
	}
}

func newTestHandler(src contract.DataSource) http.Handler {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil)
	mgr.On("GetAnalysisStore").Return(nil)

	baseCfg := &contract.Config{
		Locale:    schema.EnglishLocale,
		ScopeDate: schema.CommitmentScopeDate,
		Addr:      "127.0.0.1:0",
	}
	return NewServer(baseCfg, src, mgr)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func newSource(customer string) *source.MockDataSource {
	src := &source.MockDataSource{}
	src.On("FetchDataset", mock.Anything, customer).Return(testDataset(customer), nil)
	return src
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestHandler(&source.MockDataSource{}), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHoursBurnup(t *testing.T) {
	src := newSource("acme")
	rec := get(t, newTestHandler(src), "/api/customers/acme/burnup/hours?now=2024-01-10")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result schema.BurnupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "acme", result.Customer)
	assert.Equal(t, schema.HoursBurnupMetric, result.Metric)
	assert.Len(t, result.Series, 5)
	assert.Equal(t, 1, result.CurrentWeekIndex)
	assert.Equal(t, 30.0, result.Consumed)
	src.AssertExpectations(t)
}

func TestDemandBurnup(t *testing.T) {
	rec := get(t, newTestHandler(newSource("globex")), "/api/customers/globex/burnup/demands?now=2024-01-10&scope_date=commitment")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result schema.BurnupResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, schema.DemandBurnupMetric, result.Metric)
	assert.Equal(t, 2.0, result.FinalScope)
	assert.Equal(t, "07/01/2024", result.CurrentWeek)
}

func TestLeadTimes(t *testing.T) {
	rec := get(t, newTestHandler(newSource("acme")), "/api/customers/acme/leadtimes?now=2024-01-20")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result schema.LeadTimeResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Summary.Count)
	assert.InDelta(t, 9.4, result.Summary.P80, 1e-9)
	require.Len(t, result.Weekly, 2)
	assert.Equal(t, "07/01/2024", result.Weekly[0].Label)
	assert.Zero(t, result.Weekly[0].Value)
	assert.Equal(t, "14/01/2024", result.Weekly[1].Label)
	assert.InDelta(t, 9.4, result.Weekly[1].Value, 1e-9)
}

func TestMonthly(t *testing.T) {
	rec := get(t, newTestHandler(newSource("acme")), "/api/customers/acme/monthly?locale=pt-BR")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result schema.MonthlyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, []schema.LabeledValue{
		{Label: "Dezembro 2023", Value: 10},
		{Label: "Janeiro 2024", Value: 20},
	}, result.Months)
}

func TestErrors(t *testing.T) {
	noContract := testDataset("acme")
	noContract.Contract = nil

	tests := []struct {
		name      string
		path      string
		setup     func(src *source.MockDataSource)
		status    int
		errorText string
	}{
		{
			name:      "invalid now",
			path:      "/api/customers/acme/burnup/hours?now=tomorrow",
			setup:     func(*source.MockDataSource) {},
			status:    http.StatusBadRequest,
			errorText: "invalid parameters",
		},
		{
			name:      "invalid locale",
			path:      "/api/customers/acme/monthly?locale=fr",
			setup:     func(*source.MockDataSource) {},
			status:    http.StatusBadRequest,
			errorText: "invalid parameters",
		},
		{
			name:      "invalid scope date",
			path:      "/api/customers/acme/burnup/demands?scope_date=resolved",
			setup:     func(*source.MockDataSource) {},
			status:    http.StatusBadRequest,
			errorText: "invalid parameters",
		},
		{
			name: "upstream failure",
			path: "/api/customers/acme/leadtimes",
			setup: func(src *source.MockDataSource) {
				src.On("FetchDataset", mock.Anything, "acme").Return(nil, errors.New("connection refused"))
				src.On("Describe").Return("graphql:https://api.example.com/graphql")
			},
			status:    http.StatusBadGateway,
			errorText: "upstream fetch failed",
		},
		{
			name: "no contract",
			path: "/api/customers/acme/burnup/hours",
			setup: func(src *source.MockDataSource) {
				src.On("FetchDataset", mock.Anything, "acme").Return(noContract, nil)
			},
			status:    http.StatusNotFound,
			errorText: "contract not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &source.MockDataSource{}
			tt.setup(src)

			rec := get(t, newTestHandler(src), tt.path)
			assert.Equal(t, tt.status, rec.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.errorText, body.Error)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestConfigFor_LeavesBaseConfigUntouched(t *testing.T) {
	baseCfg := &contract.Config{Customer: "default", Locale: schema.EnglishLocale, ScopeDate: schema.CommitmentScopeDate}
	h := &handler{baseCfg: baseCfg}

	req := httptest.NewRequest(http.MethodGet, "/api/customers/globex/monthly?now=2024-01-10&locale=pt-BR", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())
	c.SetParamNames("customer")
	c.SetParamValues("globex")

	cfg, err := h.configFor(c)
	require.NoError(t, err)
	assert.Equal(t, "globex", cfg.Customer)
	assert.Equal(t, schema.PortugueseLocale, cfg.Locale)
	assert.True(t, cfg.NowPinned)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), cfg.Now)

	assert.Equal(t, "default", baseCfg.Customer)
	assert.Equal(t, schema.EnglishLocale, baseCfg.Locale)
	assert.False(t, baseCfg.NowPinned)
}

func TestUnknownRoute(t *testing.T) {
	rec := get(t, newTestHandler(&source.MockDataSource{}), "/api/customers/acme/unknown")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartHTTPServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	baseCfg := &contract.Config{Addr: "127.0.0.1:0"}

	done := make(chan error, 1)
	go func() {
		done <- StartHTTPServer(ctx, baseCfg, &source.MockDataSource{}, nil)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
