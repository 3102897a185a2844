package outwriter

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/huangsam/flowdash/core/algo"
	"github.com/huangsam/flowdash/schema"
)

// Chart styles.
var (
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle     = lipgloss.NewStyle().Faint(true)
)

// renderBarChart draws one bar per value. The bar at highlight, if any, uses a distinct color.
func renderBarChart(values []schema.LabeledValue, highlight, width int) string {
	chart := barchart.New(width, chartHeight)

	bars := make([]barchart.BarData, 0, len(values))
	for i, v := range values {
		style := barStyle
		if i == highlight {
			style = highlightStyle
		}
		bars = append(bars, barchart.BarData{
			Label: v.Label,
			Values: []barchart.BarValue{{
				Name:  v.Label,
				Value: max(v.Value, 0),
				Style: style,
			}},
		})
	}

	chart.PushAll(bars)
	chart.Draw()
	return chart.View()
}

// shortWeekLabel turns a DD/MM/YYYY week label into DD/MM so that bars stay narrow.
func shortWeekLabel(label string) string {
	date, _, ok := algo.ParseWeekLabel(label, 0)
	if !ok {
		return label
	}
	return algo.FormatLabel(date, algo.ShortLabel)
}

// shortMonthLabel turns "January 2024" into "Jan 24".
func shortMonthLabel(label string) string {
	name, year, found := strings.Cut(label, " ")
	if !found || len(year) < 2 {
		return label
	}
	runes := []rune(name)
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return fmt.Sprintf("%s %s", string(runes), year[len(year)-2:])
}
