package schema

import "time"

// SeriesPoint is one produced chart point, as recorded by the analysis store.
type SeriesPoint struct {
	Seq         int
	Label       string
	PeriodStart time.Time
	TotalScope  float64
	Value       float64
}

// AnalysisRunRecord represents a row from the flowdash_analysis_runs table.
type AnalysisRunRecord struct {
	AnalysisID    int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Metric        string
	Customer      string
	TotalPoints   int32
	ConfigParams  *string
}

// SeriesPointRecord represents a row from the flowdash_series_points table.
type SeriesPointRecord struct {
	AnalysisID  int64
	Metric      string
	Seq         int32
	Label       string
	PeriodStart *time.Time
	TotalScope  float64
	Value       float64
}
