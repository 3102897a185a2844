// Package schema has configs, models and shared types for all parts of flowdash.
package schema

import "time"

// DatedObservation is one quantity of work attributable to a point in time.
// A zero Date means the source record had no usable date.
type DatedObservation struct {
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

// HasDate reports whether the observation carries a usable date.
func (o DatedObservation) HasDate() bool {
	return !o.Date.IsZero()
}

// WeekBucket is a single week of a burnup series.
type WeekBucket struct {
	WeekLabel          string    `json:"week_label"`          // Canonical "DD/MM" or "DD/MM/YYYY" label of the opening Sunday
	PeriodStart        time.Time `json:"period_start"`        // Sunday that opens the week
	TotalScope         float64   `json:"total_scope"`         // Scope reference line for this week
	CumulativeConsumed float64   `json:"cumulative_consumed"` // Running total of consumption up to this week
}

// WorkItem is a demand as seen by the analytics engine.
// Zero times stand for null dates in the source record.
type WorkItem struct {
	ID             string    `json:"id"`
	CreatedDate    time.Time `json:"created_date"`
	CommitmentDate time.Time `json:"commitment_date"`
	CompletionDate time.Time `json:"completion_date"`
	DiscardedAt    time.Time `json:"discarded_at"`
}

// InScope reports whether the item counts for burnup and lead-time math.
func (w WorkItem) InScope() bool {
	return w.DiscardedAt.IsZero()
}

// Delivered reports whether the item has been completed.
func (w WorkItem) Delivered() bool {
	return !w.CompletionDate.IsZero()
}

// HasLeadTime reports whether both ends of the lead time are known.
func (w WorkItem) HasLeadTime() bool {
	return !w.CommitmentDate.IsZero() && !w.CompletionDate.IsZero()
}

// ContractRange defines the weeks to materialize and the fixed scope line.
type ContractRange struct {
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalScope float64   `json:"total_scope"`
}

// Valid reports whether the range has both ends and is not inverted.
func (c ContractRange) Valid() bool {
	return !c.StartDate.IsZero() && !c.EndDate.IsZero() && !c.StartDate.After(c.EndDate)
}

// LabeledValue is a single chart point handed to presentation layers.
type LabeledValue struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}
