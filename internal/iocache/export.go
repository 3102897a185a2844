package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/internal/parquet"
)

// ExecuteAnalysisExport exports every tracked run and series point to Parquet files.
// Two files are written: <outputFile>.analysis_runs.parquet and <outputFile>.series_points.parquet.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("analysis tracking is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total series points: %d\n", status.TotalSeriesPoints)

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}

	seriesPoints, err := store.GetAllSeriesPoints()
	if err != nil {
		return fmt.Errorf("failed to retrieve series points: %w", err)
	}

	parquetRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	parquetPoints := parquet.ConvertSeriesPointRecords(seriesPoints)

	analysisRunsFile := outputFile + ".analysis_runs.parquet"
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, analysisRunsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetRuns), analysisRunsFile)

	seriesPointsFile := outputFile + ".series_points.parquet"
	if err := parquet.WriteSeriesPointsParquet(parquetPoints, seriesPointsFile); err != nil {
		return fmt.Errorf("failed to write series points: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d series points to: %s\n", len(parquetPoints), seriesPointsFile)

	return nil
}
