package algo

import (
	"time"

	"github.com/huangsam/flowdash/schema"
)

// IdealProgress returns the straight line from finalScope/n at the first week
// to finalScope at the last week.
func IdealProgress(n int, finalScope float64) []float64 {
	ideal := make([]float64, n)
	for i := range ideal {
		ideal[i] = idealAt(n, i, finalScope)
	}
	return ideal
}

func idealAt(n, i int, finalScope float64) float64 {
	if n <= 0 {
		return 0
	}
	return finalScope / float64(n) * float64(i+1)
}

// CurrentWeekIndex locates now within the series. It returns the bucket whose
// week contains now, otherwise the last bucket that started before now.
// The result is -1 when the series is empty or starts after now, and the last
// index when now is past the end.
func CurrentWeekIndex(series []schema.WeekBucket, now time.Time) int {
	if len(series) == 0 {
		return -1
	}
	sunday := sundayOf(now)
	for i, b := range series {
		if b.PeriodStart.Equal(sunday) {
			return i
		}
	}
	for i, b := range series {
		if b.PeriodStart.After(sunday) {
			return i - 1
		}
	}
	return len(series) - 1
}

func validIndex(series []schema.WeekBucket, idx int) bool {
	return idx >= 0 && idx < len(series)
}

// PaceDeficit is the ideal value at idx minus what has been consumed so far.
// Positive means behind the ideal line. Out-of-range indexes give 0.
func PaceDeficit(series []schema.WeekBucket, idx int, finalScope float64) float64 {
	if !validIndex(series, idx) {
		return 0
	}
	return idealAt(len(series), idx, finalScope) - series[idx].CumulativeConsumed
}

// DemandsNeeded is the number of items still required to reach the ideal line
// this week, never negative.
func DemandsNeeded(series []schema.WeekBucket, idx int, finalScope float64) float64 {
	return max(0, PaceDeficit(series, idx, finalScope))
}

// HoursNeeded spreads the remaining scope evenly over the weeks left,
// counting the current one. A negative rate means consumption already
// exceeds the final scope and is flagged as Exceeded.
func HoursNeeded(series []schema.WeekBucket, idx int, finalScope float64) schema.Pace {
	if !validIndex(series, idx) {
		return schema.Pace{}
	}
	remaining := finalScope - series[idx].CumulativeConsumed
	weeksLeft := float64(len(series) - idx)
	rate := remaining / weeksLeft
	return schema.Pace{Value: rate, Exceeded: rate < 0}
}
