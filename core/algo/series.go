package algo

import (
	"time"

	"github.com/huangsam/flowdash/schema"
)

// ScopeMode decides how TotalScope evolves across a series.
type ScopeMode int

const (
	// FixedScope holds TotalScope at the contract's scope for every week.
	FixedScope ScopeMode = iota
	// CountedScope grows TotalScope from zero by scope events, forward-filling quiet weeks.
	CountedScope
)

// SeriesInput collects everything needed to build one weekly series.
type SeriesInput struct {
	Range       schema.ContractRange
	Consumption []schema.DatedObservation // accumulated into CumulativeConsumed
	ScopeEvents []schema.DatedObservation // only read in CountedScope mode
	Mode        ScopeMode
	Format      LabelFormat
}

// BuildWeeklySeries produces one bucket per week from the earliest relevant
// date through the contract end.
//
// The earliest relevant date is the first day of the contract start month,
// pulled back to the first day of an earlier observation's month if any
// observation predates it. Positive observations are added to the bucket
// whose week contains their date; undated observations and those falling
// outside every bucket go to the first bucket so that the final cumulative
// total equals the sum of all positive values.
//
// An invalid range or an input without observations yields an empty series.
func BuildWeeklySeries(in SeriesInput) []schema.WeekBucket {
	if !in.Range.Valid() {
		return []schema.WeekBucket{}
	}
	if len(in.Consumption) == 0 && (in.Mode != CountedScope || len(in.ScopeEvents) == 0) {
		return []schema.WeekBucket{}
	}

	start := earliestRelevantDate(in)
	keys := WeekKeysBetween(start, in.Range.EndDate)
	if len(keys) == 0 {
		return []schema.WeekBucket{}
	}

	// Buckets are matched by their long label so that short labels of
	// multi-year ranges never collide.
	index := make(map[string]int, len(keys))
	buckets := make([]schema.WeekBucket, len(keys))
	for i, k := range keys {
		index[k.Label(LongLabel)] = i
		buckets[i] = schema.WeekBucket{
			WeekLabel:   k.Label(in.Format),
			PeriodStart: k.Start(),
		}
	}
	locate := func(o schema.DatedObservation) int {
		if !o.HasDate() {
			return 0
		}
		if i, ok := index[KeyFor(o.Date).Label(LongLabel)]; ok {
			return i
		}
		return 0
	}

	consumed := make([]float64, len(buckets))
	for _, o := range in.Consumption {
		if o.Value > 0 {
			consumed[locate(o)] += o.Value
		}
	}

	var scopeAdded []float64
	if in.Mode == CountedScope {
		scopeAdded = make([]float64, len(buckets))
		for _, o := range in.ScopeEvents {
			if o.Value > 0 {
				scopeAdded[locate(o)] += o.Value
			}
		}
	}

	var cumulative, scope float64
	for i := range buckets {
		cumulative += consumed[i]
		buckets[i].CumulativeConsumed = cumulative
		if in.Mode == CountedScope {
			scope += scopeAdded[i]
			buckets[i].TotalScope = scope
		} else {
			buckets[i].TotalScope = in.Range.TotalScope
		}
	}
	return buckets
}

func earliestRelevantDate(in SeriesInput) time.Time {
	earliest := monthStart(in.Range.StartDate)
	check := func(obs []schema.DatedObservation) {
		for _, o := range obs {
			if o.HasDate() && civilDate(o.Date).Before(earliest) {
				earliest = monthStart(o.Date)
			}
		}
	}
	check(in.Consumption)
	if in.Mode == CountedScope {
		check(in.ScopeEvents)
	}
	return earliest
}

// CumulativeValues extracts CumulativeConsumed from each bucket.
func CumulativeValues(series []schema.WeekBucket) []float64 {
	values := make([]float64, len(series))
	for i, b := range series {
		values[i] = b.CumulativeConsumed
	}
	return values
}

// FinalScope returns the scope of the last week, or 0 for an empty series.
func FinalScope(series []schema.WeekBucket) float64 {
	if len(series) == 0 {
		return 0
	}
	return series[len(series)-1].TotalScope
}
