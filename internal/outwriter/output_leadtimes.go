package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/parquet"
	"github.com/huangsam/flowdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// PrintLeadTimeResults writes lead times to stdout or --output-file in the configured format.
func PrintLeadTimeResults(result *schema.LeadTimeResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		points := schema.SeriesPointsFromValues(result.Weekly)
		return writeParquet(cfg.OutputFile, parquet.ConvertDashboardPoints(schema.LeadTimesMetric, result.Customer, points, nil))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteLeadTimeResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteLeadTimeResults outputs lead times, dispatching based on the output format configured.
// CSV carries the weekly P80 series, JSON carries everything.
func WriteLeadTimeResults(w io.Writer, result *schema.LeadTimeResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		records := lo.Map(result.Weekly, func(v schema.LabeledValue, _ int) []string {
			return []string{v.Label, fmtFloat(v.Value)}
		})
		return writeCSV(w, []string{"week_label", "p80_days"}, records)
	case schema.ChartOut:
		return writeLeadTimeChart(w, result, cfg, fmtFloat)
	default:
		return writeLeadTimeTable(w, result, cfg, fmtFloat, duration)
	}
}

// writeLeadTimeSummary prints the point-in-time figures.
func writeLeadTimeSummary(w io.Writer, s schema.LeadTimeSummary, fmtFloat func(float64) string) error {
	_, err := fmt.Fprintf(w, "Delivered: %d | P80: %s days | Average: %s days | Max: %s days\n",
		s.Count, fmtFloat(s.P80), fmtFloat(s.Average), fmtFloat(s.Max))
	return err
}

// writeLeadTimeTable lists every measured demand, longest first, then the summary.
func writeLeadTimeTable(w io.Writer, result *schema.LeadTimeResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Demand", "Completed", "Lead Time (days)"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := lo.Map(result.Summary.Items, func(item schema.LeadTimeItem, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(item.ID, getTerminalWidth(cfg)/3),
			item.CompletionDate.Format(contract.DateFormat),
			fmtFloat(item.Days),
		}
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeLeadTimeSummary(w, result.Summary, fmtFloat); err != nil {
		return err
	}
	if n := len(result.Weekly); n > 0 {
		last := result.Weekly[n-1]
		if _, err := fmt.Fprintf(w, "P80 as of week %s: %s days over %d weeks\n", last.Label, fmtFloat(last.Value), n); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Lead times computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeLeadTimeChart draws the weekly P80 evolution.
func writeLeadTimeChart(w io.Writer, result *schema.LeadTimeResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	title := titleStyle.Render(fmt.Sprintf("P80 lead time for %s", result.Customer))
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	if len(result.Weekly) == 0 {
		_, err := fmt.Fprintln(w, mutedStyle.Render("No delivered demands yet"))
		return err
	}
	values := lo.Map(result.Weekly, func(v schema.LabeledValue, _ int) schema.LabeledValue {
		return schema.LabeledValue{Label: shortWeekLabel(v.Label), Value: v.Value}
	})
	if _, err := fmt.Fprintln(w, renderBarChart(values, len(values)-1, getChartWidth(cfg))); err != nil {
		return err
	}
	return writeLeadTimeSummary(w, result.Summary, fmtFloat)
}
