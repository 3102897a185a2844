// Package algo holds the pure computations behind the dashboard metrics:
// week keys, weekly series, burnup pace, lead-time percentiles and monthly rollups.
// Nothing in here performs I/O or reads the wall clock.
package algo

import (
	"math"
	"time"
)

// LabelFormat selects how a week label is rendered.
type LabelFormat int

const (
	// LongLabel renders week labels as DD/MM/YYYY.
	LongLabel LabelFormat = iota
	// ShortLabel renders week labels as DD/MM.
	ShortLabel
)

const (
	longLayout  = "02/01/2006"
	shortLayout = "02/01"

	// weeksPerYear is the week count after which a key is considered for rollover.
	weeksPerYear = 52
)

// WeekKey identifies a Sunday-starting week by its number within a year.
type WeekKey struct {
	Week int
	Year int
}

// civilDate drops the clock and zone from t, keeping its calendar date at UTC midnight.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sundayOf returns the Sunday on or before the calendar date of t.
func sundayOf(t time.Time) time.Time {
	d := civilDate(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// firstSunday returns the Sunday that opens week 1 of year, which may fall in December of year-1.
func firstSunday(year int) time.Time {
	return sundayOf(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC))
}

// WeekNumber returns the week key of date: weeks start on Sunday and week 1
// is the week containing January 1.
func WeekNumber(date time.Time) WeekKey {
	d := civilDate(date)
	jan1 := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	offset := d.YearDay() - 1 + int(jan1.Weekday())
	week := int(math.Ceil(float64(offset+1) / 7))
	return WeekKey{Week: week, Year: d.Year()}
}

// KeyFor returns the canonical key of the week containing date. The week that
// straddles New Year belongs to the new year as its week 1.
func KeyFor(date time.Time) WeekKey {
	sunday := sundayOf(date)
	saturday := sunday.AddDate(0, 0, 6)
	if saturday.Year() != sunday.Year() {
		return WeekKey{Week: 1, Year: saturday.Year()}
	}
	return WeekNumber(sunday)
}

// Start returns the Sunday that begins the week.
func (k WeekKey) Start() time.Time {
	return firstSunday(k.Year).AddDate(0, 0, (k.Week-1)*7)
}

// Label renders the week's Sunday in the requested format.
func (k WeekKey) Label(format LabelFormat) string {
	return FormatLabel(k.Start(), format)
}

// Next returns the key of the following week.
//
// Keys past week 52 roll to week 1 of the next year only when that week
// actually begins next. Years with a genuine 53rd week keep it instead of
// rolling over at a fixed 52, so walking with Next never repeats or skips a
// Sunday across New Year.
func (k WeekKey) Next() WeekKey {
	next := WeekKey{Week: k.Week + 1, Year: k.Year}
	if next.Week > weeksPerYear {
		return KeyFor(k.Start().AddDate(0, 0, 7))
	}
	return next
}

// WeekLabel renders the Sunday starting the given week of year.
func WeekLabel(week, year int, format LabelFormat) string {
	return WeekKey{Week: week, Year: year}.Label(format)
}

// FormatLabel renders a date as a week label.
func FormatLabel(t time.Time, format LabelFormat) string {
	if format == ShortLabel {
		return t.Format(shortLayout)
	}
	return t.Format(longLayout)
}

// ParseWeekLabel reads a DD/MM/YYYY or DD/MM label back into a date.
// hasYear reports whether the label carried its own year; when it did not,
// the returned date uses fallbackYear.
func ParseWeekLabel(label string, fallbackYear int) (date time.Time, hasYear bool, ok bool) {
	if t, err := time.Parse(longLayout, label); err == nil {
		return t, true, true
	}
	if t, err := time.Parse(shortLayout, label); err == nil {
		return time.Date(fallbackYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), false, true
	}
	return time.Time{}, false, false
}

// WeekKeysBetween lists the canonical week keys from the week containing
// start through the week containing end, inclusive. It returns nil when
// start is after end.
func WeekKeysBetween(start, end time.Time) []WeekKey {
	first, last := sundayOf(start), sundayOf(end)
	if first.After(last) {
		return nil
	}
	var keys []WeekKey
	for k := KeyFor(first); !k.Start().After(last); k = k.Next() {
		keys = append(keys, k)
	}
	return keys
}
