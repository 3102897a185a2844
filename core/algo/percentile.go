package algo

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/huangsam/flowdash/schema"
)

const (
	// P80 is the percentile reported for lead times.
	P80 = 0.8

	msPerDay = 24 * 60 * 60 * 1000
)

// Percentile returns the p-th percentile (0 <= p <= 1) of values using
// linear interpolation between closest ranks. The input is not modified.
// An empty input gives 0.
func Percentile(values []float64, p float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := p * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	lo = min(max(lo, 0), n-1)
	hi = min(max(hi, 0), n-1)
	return sorted[lo] + (rank-float64(lo))*(sorted[hi]-sorted[lo])
}

// LeadTimeDays is the absolute distance between commitment and completion in
// fractional days. ok is false for discarded items or when either date is missing.
func LeadTimeDays(item schema.WorkItem) (days float64, ok bool) {
	if !item.InScope() || !item.HasLeadTime() {
		return 0, false
	}
	ms := item.CompletionDate.Sub(item.CommitmentDate).Milliseconds()
	return math.Abs(float64(ms)) / msPerDay, true
}

// LeadTimes lists the lead time of every measurable item, longest first.
func LeadTimes(items []schema.WorkItem) []schema.LeadTimeItem {
	var out []schema.LeadTimeItem
	for _, w := range items {
		if days, ok := LeadTimeDays(w); ok {
			out = append(out, schema.LeadTimeItem{ID: w.ID, CompletionDate: w.CompletionDate, Days: days})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Days != out[j].Days {
			return out[i].Days > out[j].Days
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SummarizeLeadTimes computes count, P80, average and max over measurable items.
func SummarizeLeadTimes(items []schema.WorkItem) schema.LeadTimeSummary {
	leadTimes := LeadTimes(items)
	summary := schema.LeadTimeSummary{Count: len(leadTimes), Items: leadTimes}
	if len(leadTimes) == 0 {
		summary.Items = []schema.LeadTimeItem{}
		return summary
	}
	values := make([]float64, len(leadTimes))
	var total float64
	for i, lt := range leadTimes {
		values[i] = lt.Days
		total += lt.Days
	}
	summary.P80 = Percentile(values, P80)
	summary.Average = total / float64(len(values))
	summary.Max = leadTimes[0].Days
	return summary
}

// WeeklyP80Series reports, for each week from the earliest completion through
// the week containing now, the P80 of lead times of items completed on or
// before that week's Sunday. Weeks with nothing completed yet repeat the
// previous value, starting from 0.
func WeeklyP80Series(items []schema.WorkItem, now time.Time, format LabelFormat) []schema.LabeledValue {
	leadTimes := LeadTimes(items)
	if len(leadTimes) == 0 {
		return []schema.LabeledValue{}
	}

	// Oldest completion first so each week only extends the prefix.
	slices.SortStableFunc(leadTimes, func(a, b schema.LeadTimeItem) int {
		return a.CompletionDate.Compare(b.CompletionDate)
	})

	keys := WeekKeysBetween(leadTimes[0].CompletionDate, now)
	series := make([]schema.LabeledValue, 0, len(keys))
	var (
		prev     float64
		included []float64
		next     int
	)
	for _, k := range keys {
		sunday := k.Start()
		for next < len(leadTimes) && !civilDate(leadTimes[next].CompletionDate).After(sunday) {
			included = append(included, leadTimes[next].Days)
			next++
		}
		if len(included) > 0 {
			prev = Percentile(included, P80)
		}
		series = append(series, schema.LabeledValue{Label: k.Label(format), Value: prev})
	}
	return series
}
