// Package parquet provides data structures and functions for exporting flowdash
// series and analysis data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/flowdash/schema"
	"github.com/parquet-go/parquet-go"
)

// AnalysisRun represents a single tracked pipeline run.
// This struct maps to the flowdash_analysis_runs database table.
type AnalysisRun struct {
	// AnalysisID is the unique identifier for this run
	AnalysisID int64 `parquet:"analysis_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Metric is the dashboard metric the run produced
	Metric string `parquet:"metric,snappy,dict"`

	// Customer is the customer slug the run was computed for
	Customer string `parquet:"customer,snappy,dict"`

	// TotalPoints is the number of series points the run produced
	TotalPoints int32 `parquet:"total_points,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// SeriesPoint represents one stored point of a run's series.
// This struct maps to the flowdash_series_points database table.
type SeriesPoint struct {
	AnalysisID  int64      `parquet:"analysis_id,snappy"`
	Metric      string     `parquet:"metric,snappy,dict"`
	Seq         int32      `parquet:"seq,snappy"`
	Label       string     `parquet:"label,snappy"`
	PeriodStart *time.Time `parquet:"period_start,optional,snappy"`
	TotalScope  float64    `parquet:"total_scope,snappy"`
	Value       float64    `parquet:"value,snappy"`
}

// DashboardPoint is one row of a dashboard result written in parquet output mode.
type DashboardPoint struct {
	Metric      string     `parquet:"metric,snappy,dict"`
	Customer    string     `parquet:"customer,snappy,dict"`
	Seq         int32      `parquet:"seq,snappy"`
	Label       string     `parquet:"label,snappy"`
	PeriodStart *time.Time `parquet:"period_start,optional,snappy"`
	TotalScope  float64    `parquet:"total_scope,snappy"`
	Value       float64    `parquet:"value,snappy"`
	Ideal       *float64   `parquet:"ideal,optional,snappy"`
}

// writeRows writes rows to a new Parquet file, inferring the schema from T's struct tags.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteAnalysisRunsParquet writes a slice of AnalysisRun structs to a Parquet file.
func WriteAnalysisRunsParquet(data []AnalysisRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSeriesPointsParquet writes a slice of SeriesPoint structs to a Parquet file.
func WriteSeriesPointsParquet(data []SeriesPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteDashboardPointsParquet writes a slice of DashboardPoint structs to a Parquet file.
func WriteDashboardPointsParquet(data []DashboardPoint, outputPath string) error {
	return writeRows(data, outputPath)
}

// ConvertAnalysisRunRecords converts schema.AnalysisRunRecord to AnalysisRun for Parquet export.
func ConvertAnalysisRunRecords(records []schema.AnalysisRunRecord) []AnalysisRun {
	result := make([]AnalysisRun, len(records))
	for i, record := range records {
		result[i] = AnalysisRun{
			AnalysisID:    record.AnalysisID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Metric:        record.Metric,
			Customer:      record.Customer,
			TotalPoints:   record.TotalPoints,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertSeriesPointRecords converts schema.SeriesPointRecord to SeriesPoint for Parquet export.
func ConvertSeriesPointRecords(records []schema.SeriesPointRecord) []SeriesPoint {
	result := make([]SeriesPoint, len(records))
	for i, record := range records {
		result[i] = SeriesPoint{
			AnalysisID:  record.AnalysisID,
			Metric:      record.Metric,
			Seq:         record.Seq,
			Label:       record.Label,
			PeriodStart: record.PeriodStart,
			TotalScope:  record.TotalScope,
			Value:       record.Value,
		}
	}
	return result
}

// ConvertDashboardPoints converts produced series points into output rows.
// ideal may be nil or shorter than points; missing entries stay null.
func ConvertDashboardPoints(metric schema.MetricKind, customer string, points []schema.SeriesPoint, ideal []float64) []DashboardPoint {
	result := make([]DashboardPoint, len(points))
	for i, p := range points {
		row := DashboardPoint{
			Metric:     string(metric),
			Customer:   customer,
			Seq:        int32(p.Seq),
			Label:      p.Label,
			TotalScope: p.TotalScope,
			Value:      p.Value,
		}
		if !p.PeriodStart.IsZero() {
			start := p.PeriodStart
			row.PeriodStart = &start
		}
		if i < len(ideal) {
			v := ideal[i]
			row.Ideal = &v
		}
		result[i] = row
	}
	return result
}
