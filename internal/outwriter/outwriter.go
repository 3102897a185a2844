// Package outwriter renders pipeline results as tables, CSV, JSON, Parquet or terminal charts.
package outwriter

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"golang.org/x/term"
)

// Terminal width bounds used for charts.
const (
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	minChartWidth    = 20
	maxChartWidth    = 160
	chartHeight      = 12
)

// LogRunHeader prints a concise, 2-line header before a pipeline runs.
func LogRunHeader(cfg *contract.Config, metric schema.MetricKind) {
	logRunHeader(os.Stdout, cfg, metric)
}

// logRunHeader skips the header when JSON or CSV goes to stdout, so that output stays parseable.
func logRunHeader(w io.Writer, cfg *contract.Config, metric schema.MetricKind) {
	if cfg.OutputFile == "" && (cfg.Output == schema.JSONOut || cfg.Output == schema.CSVOut) {
		return
	}
	customer := cfg.Customer
	if customer == "" {
		customer = "default"
	}
	now := cfg.Now.Format(contract.DateTimeFormat)
	if cfg.UseEmojis {
		_, _ = fmt.Fprintf(w, "🔎 Customer: %s (Metric: %s)\n", customer, metric)
		_, _ = fmt.Fprintf(w, "📅 Now: %s\n", now)
		return
	}
	_, _ = fmt.Fprintf(w, "Customer: %s (Metric: %s)\n", customer, metric)
	_, _ = fmt.Fprintf(w, "Now: %s\n", now)
}

// getTerminalWidth returns the --width override, otherwise the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detected, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detected <= 0 {
		return defaultTermWidth
	}
	return detected
}

// getChartWidth leaves room for the chart's axis and clamps to sane bounds.
func getChartWidth(cfg *contract.Config) int {
	return min(max(getTerminalWidth(cfg)-4, minChartWidth), maxChartWidth)
}

// paceLabel renders a pace status, colored when colors are enabled.
func paceLabel(status schema.PaceStatus, cfg *contract.Config) string {
	if cfg.UseColors {
		return contract.GetColorLabel(status)
	}
	return string(status)
}

// successMessage names what writeWithFile produced for each output mode.
func successMessage(mode schema.OutputMode) string {
	switch mode {
	case schema.JSONOut:
		return "Wrote JSON"
	case schema.CSVOut:
		return "Wrote CSV"
	case schema.ChartOut:
		return "Wrote chart"
	default:
		return "Wrote table"
	}
}
