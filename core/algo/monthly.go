package algo

import (
	"fmt"
	"time"

	"github.com/huangsam/flowdash/schema"
)

// monthNames maps a locale to its month names, January first.
var monthNames = map[schema.Locale][12]string{
	schema.EnglishLocale: {
		"January", "February", "March", "April", "May", "June",
		"July", "August", "September", "October", "November", "December",
	},
	schema.PortugueseLocale: {
		"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
		"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
	},
}

// MonthName returns the localized name of m. Unknown locales fall back to English.
func MonthName(m time.Month, locale schema.Locale) string {
	names, ok := monthNames[locale]
	if !ok {
		names = monthNames[schema.EnglishLocale]
	}
	return names[m-1]
}

// Deaccumulate turns a running total back into per-step amounts.
func Deaccumulate(cumulative []float64) []float64 {
	raw := make([]float64, len(cumulative))
	var prev float64
	for i, v := range cumulative {
		raw[i] = v - prev
		prev = v
	}
	return raw
}

// MonthlyRollup groups the weekly consumption of a series by calendar month
// of each week's label, in chronological order. A week belongs entirely to
// the month of its opening Sunday.
func MonthlyRollup(series []schema.WeekBucket, locale schema.Locale) []schema.LabeledValue {
	raw := Deaccumulate(CumulativeValues(series))
	rollup := []schema.LabeledValue{}
	lastKey := -1
	for i, b := range series {
		month, year := bucketMonth(b)
		key := year*12 + int(month) - 1
		if key != lastKey {
			rollup = append(rollup, schema.LabeledValue{Label: fmt.Sprintf("%s %d", MonthName(month, locale), year)})
			lastKey = key
		}
		rollup[len(rollup)-1].Value += raw[i]
	}
	return rollup
}

// bucketMonth reads the month from the week label, borrowing the year from
// PeriodStart when the label is short.
func bucketMonth(b schema.WeekBucket) (time.Month, int) {
	if date, _, ok := ParseWeekLabel(b.WeekLabel, b.PeriodStart.Year()); ok {
		return date.Month(), date.Year()
	}
	return b.PeriodStart.Month(), b.PeriodStart.Year()
}
