package schema

// GetPaceStatus classifies a burnup at its current week.
// deficit is the ideal value minus the consumed value at that week.
func GetPaceStatus(currentWeekIndex int, deficit float64, exceeded bool) PaceStatus {
	switch {
	case currentWeekIndex < 0:
		return NotStarted
	case exceeded:
		return ExceededPace
	case deficit > 0:
		return BehindPace
	default:
		return OnTrackPace
	}
}

// SeriesPointsFromBurnup flattens a burnup into points for the analysis store.
func SeriesPointsFromBurnup(result BurnupResult) []SeriesPoint {
	points := make([]SeriesPoint, len(result.Series))
	for i, b := range result.Series {
		points[i] = SeriesPoint{
			Seq:         i,
			Label:       b.WeekLabel,
			PeriodStart: b.PeriodStart,
			TotalScope:  b.TotalScope,
			Value:       b.CumulativeConsumed,
		}
	}
	return points
}

// SeriesPointsFromValues flattens labeled values into points for the analysis store.
func SeriesPointsFromValues(values []LabeledValue) []SeriesPoint {
	points := make([]SeriesPoint, len(values))
	for i, v := range values {
		points[i] = SeriesPoint{Seq: i, Label: v.Label, Value: v.Value}
	}
	return points
}
