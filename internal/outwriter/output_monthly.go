package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/parquet"
	"github.com/huangsam/flowdash/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// PrintMonthlyResults writes the monthly rollup to stdout or --output-file in the configured format.
func PrintMonthlyResults(result *schema.MonthlyResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.ParquetOut {
		points := schema.SeriesPointsFromValues(result.Months)
		return writeParquet(cfg.OutputFile, parquet.ConvertDashboardPoints(schema.MonthlyRollupMetric, result.Customer, points, nil))
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return WriteMonthlyResults(w, result, cfg, duration)
	}, successMessage(cfg.Output))
}

// WriteMonthlyResults outputs the monthly rollup, dispatching based on the output format configured.
func WriteMonthlyResults(w io.Writer, result *schema.MonthlyResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, result)
	case schema.CSVOut:
		records := lo.Map(result.Months, func(m schema.LabeledValue, _ int) []string {
			return []string{m.Label, fmtFloat(m.Value)}
		})
		return writeCSV(w, []string{"month", "consumed_hours"}, records)
	case schema.ChartOut:
		title := titleStyle.Render(fmt.Sprintf("Monthly hours for %s", result.Customer))
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
		if len(result.Months) == 0 {
			_, err := fmt.Fprintln(w, mutedStyle.Render("No data for this period"))
			return err
		}
		values := lo.Map(result.Months, func(m schema.LabeledValue, _ int) schema.LabeledValue {
			return schema.LabeledValue{Label: shortMonthLabel(m.Label), Value: m.Value}
		})
		if _, err := fmt.Fprintln(w, renderBarChart(values, -1, getChartWidth(cfg))); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Total: %s hours\n", fmtFloat(result.Total))
		return err
	default:
		return writeMonthlyTable(w, result, cfg, fmtFloat, duration)
	}
}

// writeMonthlyTable generates and writes the human-readable table.
func writeMonthlyTable(w io.Writer, result *schema.MonthlyResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Month", "Hours"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := lo.Map(result.Months, func(m schema.LabeledValue, _ int) []string {
		return []string{m.Label, fmtFloat(m.Value)}
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total: %s hours over %d months\n", fmtFloat(result.Total), len(result.Months)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rollup computed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
