package algo

import (
	"time"

	"github.com/huangsam/flowdash/schema"
	"github.com/samber/lo"
)

// NormalizeEffort folds per-demand effort records and additional-hours
// records into one list of dated observations. No filtering happens here:
// records with unparseable dates keep a zero Date and land in the first
// bucket of a series.
func NormalizeEffort(efforts []schema.EffortRecord, hours []schema.HoursRecord) []schema.DatedObservation {
	observations := lo.Map(efforts, func(r schema.EffortRecord, _ int) schema.DatedObservation {
		return schema.DatedObservation{Value: r.EffortValue, Date: ParseDate(r.StartTimeToComputation)}
	})
	return append(observations, lo.Map(hours, func(r schema.HoursRecord, _ int) schema.DatedObservation {
		return schema.DatedObservation{Value: r.Hours, Date: ParseDate(r.EventDate)}
	})...)
}

// FilterEffortsByRange keeps effort records dated inside the contract range.
// Records without a usable date are kept.
func FilterEffortsByRange(efforts []schema.EffortRecord, rng schema.ContractRange) []schema.EffortRecord {
	return lo.Filter(efforts, func(r schema.EffortRecord, _ int) bool {
		return keepForRange(ParseDate(r.StartTimeToComputation), rng)
	})
}

// FilterHoursByRange keeps additional-hours records dated inside the contract range.
// Records without a usable date are kept.
func FilterHoursByRange(hours []schema.HoursRecord, rng schema.ContractRange) []schema.HoursRecord {
	return lo.Filter(hours, func(r schema.HoursRecord, _ int) bool {
		return keepForRange(ParseDate(r.EventDate), rng)
	})
}

func keepForRange(date time.Time, rng schema.ContractRange) bool {
	if date.IsZero() || !rng.Valid() {
		return true
	}
	return withinRange(date, rng.StartDate, rng.EndDate)
}

// WorkItemsFromRecords converts upstream demand records into work items.
func WorkItemsFromRecords(records []schema.DemandRecord) []schema.WorkItem {
	return lo.Map(records, func(r schema.DemandRecord, _ int) schema.WorkItem {
		return schema.WorkItem{
			ID:             r.ID,
			CreatedDate:    ParseOptionalDate(r.CreatedDate),
			CommitmentDate: ParseOptionalDate(r.CommitmentDate),
			CompletionDate: ParseOptionalDate(r.EndDate),
			DiscardedAt:    ParseOptionalDate(r.DiscardedAt),
		}
	})
}

// ScopeEvents returns one unit observation per in-scope item, dated by the
// chosen scope field. Items whose scope date is missing keep a zero Date.
func ScopeEvents(items []schema.WorkItem, field schema.ScopeDateField) []schema.DatedObservation {
	inScope := lo.Filter(items, func(w schema.WorkItem, _ int) bool { return w.InScope() })
	return lo.Map(inScope, func(w schema.WorkItem, _ int) schema.DatedObservation {
		date := w.CommitmentDate
		if field == schema.CreatedScopeDate {
			date = w.CreatedDate
		}
		return schema.DatedObservation{Value: 1, Date: date}
	})
}

// DeliveryEvents returns one unit observation per delivered in-scope item.
func DeliveryEvents(items []schema.WorkItem) []schema.DatedObservation {
	delivered := lo.Filter(items, func(w schema.WorkItem, _ int) bool { return w.InScope() && w.Delivered() })
	return lo.Map(delivered, func(w schema.WorkItem, _ int) schema.DatedObservation {
		return schema.DatedObservation{Value: 1, Date: w.CompletionDate}
	})
}

// RangeFromItems derives a contract range spanning the commitment and
// completion dates of in-scope items. ok is false when no item has a date.
func RangeFromItems(items []schema.WorkItem) (rng schema.ContractRange, ok bool) {
	for _, w := range items {
		if !w.InScope() {
			continue
		}
		for _, d := range []time.Time{w.CommitmentDate, w.CompletionDate} {
			if d.IsZero() {
				continue
			}
			if rng.StartDate.IsZero() || d.Before(rng.StartDate) {
				rng.StartDate = d
			}
			if rng.EndDate.IsZero() || d.After(rng.EndDate) {
				rng.EndDate = d
			}
		}
	}
	return rng, rng.Valid()
}
