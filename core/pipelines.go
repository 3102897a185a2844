package core

import (
	"errors"
	"fmt"

	"github.com/huangsam/flowdash/core/algo"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/samber/lo"
)

// ErrNoContract is returned when an hours-based metric is asked for a customer without a contract.
var ErrNoContract = errors.New("no contract found")

// contractRange turns the customer's contract record into the range the series builder expects.
func contractRange(c *schema.ContractRecord, totalScope float64) schema.ContractRange {
	return schema.ContractRange{
		StartDate:  algo.ParseDate(c.StartDate),
		EndDate:    algo.ParseDate(c.EndDate),
		TotalScope: totalScope,
	}
}

// hoursSeries builds the weekly hours series: effort and additional hours inside the
// contract range, against the contract's total hours.
func hoursSeries(ds *schema.Dataset) ([]schema.WeekBucket, error) {
	if ds.Contract == nil {
		return nil, fmt.Errorf("%w for customer %s", ErrNoContract, ds.Customer)
	}
	rng := contractRange(ds.Contract, lo.FromPtr(ds.Contract.TotalHours))
	efforts := algo.FilterEffortsByRange(ds.DemandEfforts, rng)
	hours := algo.FilterHoursByRange(ds.AdditionalHours, rng)

	return algo.BuildWeeklySeries(algo.SeriesInput{
		Range:       rng,
		Consumption: algo.NormalizeEffort(efforts, hours),
		Mode:        algo.FixedScope,
		Format:      algo.LongLabel,
	}), nil
}

// BuildHoursBurnup computes the hours burnup of a dataset as of cfg.Now.
func BuildHoursBurnup(ds *schema.Dataset, cfg *contract.Config) (*schema.BurnupResult, error) {
	series, err := hoursSeries(ds)
	if err != nil {
		return nil, err
	}
	result := projectBurnup(schema.HoursBurnupMetric, ds.Customer, series, cfg)
	result.Pace = algo.HoursNeeded(series, result.CurrentWeekIndex, result.FinalScope)
	result.Status = schema.GetPaceStatus(result.CurrentWeekIndex,
		algo.PaceDeficit(series, result.CurrentWeekIndex, result.FinalScope), result.Pace.Exceeded)
	return result, nil
}

// BuildDemandBurnup computes the demand burnup of a dataset as of cfg.Now.
//
// The contract range is used when the customer has one. Otherwise the range
// spans the commitment and completion dates of the in-scope demands. Scope
// starts at zero and counts every in-scope demand once.
func BuildDemandBurnup(ds *schema.Dataset, cfg *contract.Config) *schema.BurnupResult {
	items := algo.WorkItemsFromRecords(ds.Demands)

	var rng schema.ContractRange
	if ds.Contract != nil {
		rng = contractRange(ds.Contract, 0)
	}
	if !rng.Valid() {
		rng, _ = algo.RangeFromItems(items)
	}

	series := algo.BuildWeeklySeries(algo.SeriesInput{
		Range:        rng,
		Consumption: algo.DeliveryEvents(items),
		ScopeEvents: algo.ScopeEvents(items, cfg.ScopeDate),
		Mode:        algo.CountedScope,
		Format:      algo.LongLabel,
	})

	result := projectBurnup(schema.DemandBurnupMetric, ds.Customer, series, cfg)
	result.Pace = schema.Pace{Value: algo.DemandsNeeded(series, result.CurrentWeekIndex, result.FinalScope)}
	result.Status = schema.GetPaceStatus(result.CurrentWeekIndex,
		algo.PaceDeficit(series, result.CurrentWeekIndex, result.FinalScope), false)
	return result
}

// projectBurnup fills the parts shared by both burnups: ideal line, current week and consumption.
func projectBurnup(metric schema.MetricKind, customer string, series []schema.WeekBucket, cfg *contract.Config) *schema.BurnupResult {
	finalScope := algo.FinalScope(series)
	idx := algo.CurrentWeekIndex(series, cfg.Now)
	result := &schema.BurnupResult{
		Metric:           metric,
		Customer:         customer,
		Series:           series,
		Ideal:            algo.IdealProgress(len(series), finalScope),
		CurrentWeekIndex: idx,
		FinalScope:       finalScope,
	}
	if idx >= 0 {
		result.CurrentWeek = series[idx].WeekLabel
		result.Consumed = series[idx].CumulativeConsumed
	}
	return result
}

// BuildLeadTimes computes the lead-time summary and weekly P80 evolution as of cfg.Now.
func BuildLeadTimes(ds *schema.Dataset, cfg *contract.Config) *schema.LeadTimeResult {
	items := algo.WorkItemsFromRecords(ds.Demands)
	return &schema.LeadTimeResult{
		Customer: ds.Customer,
		Summary:  algo.SummarizeLeadTimes(items),
		Weekly:   algo.WeeklyP80Series(items, cfg.Now, algo.LongLabel),
	}
}

// BuildMonthlyRollup rolls the hours series up by calendar month.
func BuildMonthlyRollup(ds *schema.Dataset, cfg *contract.Config) (*schema.MonthlyResult, error) {
	series, err := hoursSeries(ds)
	if err != nil {
		return nil, err
	}
	months := algo.MonthlyRollup(series, cfg.Locale)
	return &schema.MonthlyResult{
		Customer: ds.Customer,
		Months:   months,
		Total:    lo.SumBy(months, func(m schema.LabeledValue) float64 { return m.Value }),
	}, nil
}
