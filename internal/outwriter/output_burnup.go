package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/flowdash/core/algo"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/parquet"
	"github.com/huangsam/flowdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// PrintBurnupResults writes a burnup to stdout or --output-file in the configured format.
func PrintBurnupResults(result *schema.BurnupResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		points := schema.SeriesPointsFromBurnup(*result)
		return writeParquet(cfg.OutputFile, parquet.ConvertDashboardPoints(result.Metric, result.Customer, points, result.Ideal))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteBurnupResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteBurnupResults outputs a burnup, dispatching based on the output format configured.
func WriteBurnupResults(w io.Writer, result *schema.BurnupResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		return writeBurnupCSV(w, result, fmtFloat)
	case schema.ChartOut:
		return writeBurnupChart(w, result, cfg, fmtFloat)
	default:
		return writeBurnupTable(w, result, cfg, fmtFloat, duration)
	}
}

// burnupUnit names what a burnup counts.
func burnupUnit(metric schema.MetricKind) string {
	if metric == schema.DemandBurnupMetric {
		return "demands"
	}
	return "hours"
}

// writeBurnupTable generates and writes the human-readable table.
func writeBurnupTable(w io.Writer, result *schema.BurnupResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Week", "Scope", "Consumed", "Ideal", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Series))
	for i, b := range result.Series {
		marker := ""
		if i == result.CurrentWeekIndex {
			marker = "◀ now"
		}
		data = append(data, []string{
			b.WeekLabel,
			fmtFloat(b.TotalScope),
			fmtFloat(b.CumulativeConsumed),
			fmtFloat(idealAt(result.Ideal, i)),
			marker,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeBurnupSummary(w, result, cfg, fmtFloat); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Burnup computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeBurnupSummary prints where the burnup stands this week.
func writeBurnupSummary(w io.Writer, result *schema.BurnupResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	unit := burnupUnit(result.Metric)
	if result.CurrentWeekIndex < 0 {
		_, err := fmt.Fprintf(w, "Pace: %s (%d weeks, scope %s %s)\n",
			paceLabel(result.Status, cfg), len(result.Series), fmtFloat(result.FinalScope), unit)
		return err
	}

	if _, err := fmt.Fprintf(w, "Current week: %s (%d of %d)\n",
		result.CurrentWeek, result.CurrentWeekIndex+1, len(result.Series)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Consumed: %s of %s %s\n",
		fmtFloat(result.Consumed), fmtFloat(result.FinalScope), unit); err != nil {
		return err
	}

	var needed string
	if result.Metric == schema.DemandBurnupMetric {
		needed = fmt.Sprintf("%s demands needed this week", fmtFloat(result.Pace.Value))
	} else {
		needed = fmt.Sprintf("%s hours/week needed", fmtFloat(result.Pace.Value))
	}
	_, err := fmt.Fprintf(w, "Pace: %s, %s\n", paceLabel(result.Status, cfg), needed)
	return err
}

// writeBurnupCSV writes one row per week.
func writeBurnupCSV(w io.Writer, result *schema.BurnupResult, fmtFloat func(float64) string) error {
	header := []string{"week_label", "period_start", "total_scope", "cumulative_consumed", "ideal", "current"}
	records := lo.Map(result.Series, func(b schema.WeekBucket, i int) []string {
		return []string{
			b.WeekLabel,
			b.PeriodStart.Format(contract.DateFormat),
			fmtFloat(b.TotalScope),
			fmtFloat(b.CumulativeConsumed),
			fmtFloat(idealAt(result.Ideal, i)),
			strconv.FormatBool(i == result.CurrentWeekIndex),
		}
	})
	return writeCSV(w, header, records)
}

// writeBurnupChart draws cumulative consumption per week, highlighting the current week.
func writeBurnupChart(w io.Writer, result *schema.BurnupResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	values := lo.Map(result.Series, func(b schema.WeekBucket, _ int) schema.LabeledValue {
		return schema.LabeledValue{Label: algo.FormatLabel(b.PeriodStart, algo.ShortLabel), Value: b.CumulativeConsumed}
	})
	title := titleStyle.Render(fmt.Sprintf("%s burnup for %s", burnupUnit(result.Metric), result.Customer))
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No data for this period"))
		return err
	}
	if _, err := fmt.Fprintln(w, renderBarChart(values, result.CurrentWeekIndex, getChartWidth(cfg))); err != nil {
		return err
	}
	return writeBurnupSummary(w, result, cfg, fmtFloat)
}

// idealAt returns the ideal value of week i, or 0 when the line is shorter.
func idealAt(ideal []float64, i int) float64 {
	if i < len(ideal) {
		return ideal[i]
	}
	return 0
}
