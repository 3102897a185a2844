package schema

import "time"

// Pace is the effort needed this week to get back on the ideal line.
type Pace struct {
	Value    float64 `json:"value"`
	Exceeded bool    `json:"exceeded"` // Consumption already went past the scope
}

// BurnupResult holds a burnup series with its projection and pace.
type BurnupResult struct {
	Metric           MetricKind   `json:"metric"`
	Customer         string       `json:"customer"`
	Series           []WeekBucket `json:"series"`
	Ideal            []float64    `json:"ideal"`
	CurrentWeekIndex int          `json:"current_week_index"`
	CurrentWeek      string       `json:"current_week"`
	FinalScope       float64      `json:"final_scope"`
	Consumed         float64      `json:"consumed"`
	Pace             Pace         `json:"pace"`
	Status           PaceStatus   `json:"status"`
}

// LeadTimeItem is the lead time of a single delivered demand.
type LeadTimeItem struct {
	ID             string    `json:"id"`
	CompletionDate time.Time `json:"completion_date"`
	Days           float64   `json:"days"`
}

// LeadTimeSummary is the point-in-time lead-time picture.
type LeadTimeSummary struct {
	Count   int            `json:"count"`
	P80     float64        `json:"p80"`
	Average float64        `json:"average"`
	Max     float64        `json:"max"`
	Items   []LeadTimeItem `json:"items"` // Longest first
}

// LeadTimeResult holds the lead-time summary and its weekly P80 evolution.
type LeadTimeResult struct {
	Customer string          `json:"customer"`
	Summary  LeadTimeSummary `json:"summary"`
	Weekly   []LabeledValue  `json:"weekly"`
}

// MonthlyResult holds non-accumulated consumption per calendar month.
type MonthlyResult struct {
	Customer string         `json:"customer"`
	Months   []LabeledValue `json:"months"`
	Total    float64        `json:"total"`
}
