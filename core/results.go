package core

import (
	"context"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
)

// GetHoursBurnupResults computes the hours burnup without printing it.
func GetHoursBurnupResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (*schema.BurnupResult, time.Duration, error) {
	return runPipeline(ctx, cfg, src, mgr, schema.HoursBurnupMetric,
		func(ds *schema.Dataset, cfg *contract.Config) (*schema.BurnupResult, []schema.SeriesPoint, error) {
			result, err := BuildHoursBurnup(ds, cfg)
			if err != nil {
				return nil, nil, err
			}
			return result, schema.SeriesPointsFromBurnup(*result), nil
		})
}

// GetDemandBurnupResults computes the demand burnup without printing it.
func GetDemandBurnupResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (*schema.BurnupResult, time.Duration, error) {
	return runPipeline(ctx, cfg, src, mgr, schema.DemandBurnupMetric,
		func(ds *schema.Dataset, cfg *contract.Config) (*schema.BurnupResult, []schema.SeriesPoint, error) {
			result := BuildDemandBurnup(ds, cfg)
			return result, schema.SeriesPointsFromBurnup(*result), nil
		})
}

// GetLeadTimeResults computes the lead-time summary and weekly P80 without printing them.
func GetLeadTimeResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (*schema.LeadTimeResult, time.Duration, error) {
	return runPipeline(ctx, cfg, src, mgr, schema.LeadTimesMetric,
		func(ds *schema.Dataset, cfg *contract.Config) (*schema.LeadTimeResult, []schema.SeriesPoint, error) {
			result := BuildLeadTimes(ds, cfg)
			return result, schema.SeriesPointsFromValues(result.Weekly), nil
		})
}

// GetMonthlyResults computes the monthly consumption rollup without printing it.
func GetMonthlyResults(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) (*schema.MonthlyResult, time.Duration, error) {
	return runPipeline(ctx, cfg, src, mgr, schema.MonthlyRollupMetric,
		func(ds *schema.Dataset, cfg *contract.Config) (*schema.MonthlyResult, []schema.SeriesPoint, error) {
			result, err := BuildMonthlyRollup(ds, cfg)
			if err != nil {
				return nil, nil, err
			}
			return result, schema.SeriesPointsFromValues(result.Months), nil
		})
}
