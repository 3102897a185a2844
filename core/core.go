// Package core has the dashboard pipelines: fetch a customer's dataset, build
// a metric from it, track the run and print the result.
package core

import (
	"context"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/outwriter"
)

// ExecutorFunc defines the function signature for executing the different metrics.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error

// ExecuteHoursBurnup builds the hours burnup and prints it.
// It serves as the main entry point for the 'burnup' command.
func ExecuteHoursBurnup(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	result, duration, err := GetHoursBurnupResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintBurnupResults(result, cfg, duration)
}

// ExecuteDemandBurnup builds the demand burnup and prints it.
// It serves as the main entry point for the 'demands' command.
func ExecuteDemandBurnup(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	result, duration, err := GetDemandBurnupResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintBurnupResults(result, cfg, duration)
}

// ExecuteLeadTimes builds the lead-time summary and prints it.
func ExecuteLeadTimes(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	result, duration, err := GetLeadTimeResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintLeadTimeResults(result, cfg, duration)
}

// ExecuteMonthlyRollup builds the monthly consumption rollup and prints it.
func ExecuteMonthlyRollup(ctx context.Context, cfg *contract.Config, src contract.DataSource, mgr contract.CacheManager) error {
	result, duration, err := GetMonthlyResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return outwriter.PrintMonthlyResults(result, cfg, duration)
}
