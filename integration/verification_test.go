//go:build basic

package integration

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBurnupVerification runs flowdash burnup as JSON and checks the weekly series.
func TestBurnupVerification(t *testing.T) {
	out, err := runFlowdash(t, nil, "burnup", "acme", "--output", "json", "--now", "2024-01-17", "--cache-backend", "none")
	require.NoError(t, err)

	var result schema.BurnupResult
	require.NoError(t, json.Unmarshal(out, &result))

	require.Len(t, result.Series, 5)
	cumulative := make([]float64, 0, len(result.Series))
	for _, b := range result.Series {
		cumulative = append(cumulative, b.CumulativeConsumed)
	}
	assert.Equal(t, []float64{10, 30, 35, 35, 35}, cumulative)
	assert.Equal(t, "14/01/2024", result.CurrentWeek)
	assert.Equal(t, schema.BehindPace, result.Status)
}

// TestDemandsVerification checks that discarded demands stay out of the scope
// and that the contract's initial scope is not added on top of the demand count.
func TestDemandsVerification(t *testing.T) {
	out, err := runFlowdash(t, nil, "demands", "acme", "--output", "json", "--now", "2024-01-17", "--cache-backend", "none")
	require.NoError(t, err)

	var result schema.BurnupResult
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, 3.0, result.FinalScope)
	assert.Equal(t, 2.0, result.Consumed)
}

// TestLeadTimesVerification checks the P80 against the two delivered demands.
func TestLeadTimesVerification(t *testing.T) {
	out, err := runFlowdash(t, nil, "leadtimes", "acme", "--output", "json", "--now", "2024-01-17", "--cache-backend", "none")
	require.NoError(t, err)

	var result schema.LeadTimeResult
	require.NoError(t, json.Unmarshal(out, &result))
	assert.Equal(t, 2, result.Summary.Count)
	assert.InDelta(t, 12.6, result.Summary.P80, 1e-9)
}

// TestMonthlyCSVVerification writes the monthly rollup to a CSV file and reads it back.
func TestMonthlyCSVVerification(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "monthly.csv")
	_, err := runFlowdash(t, nil, "monthly", "acme", "--output", "csv", "--output-file", outputFile, "--locale", "pt-BR", "--cache-backend", "none")
	require.NoError(t, err)

	f, err := os.Open(outputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"month", "consumed_hours"},
		{"Dezembro 2023", "10.0"},
		{"Janeiro 2024", "25.0"},
	}, records)
}

// TestCachedRunsAgree runs the same metric twice against a SQLite cache and compares the output.
func TestCachedRunsAgree(t *testing.T) {
	home := t.TempDir()
	env := []string{"HOME=" + home, "FLOWDASH_ANALYSIS_BACKEND=sqlite"}

	first, err := runFlowdash(t, env, "burnup", "acme", "--output", "json", "--now", "2024-01-17")
	require.NoError(t, err)
	second, err := runFlowdash(t, env, "burnup", "acme", "--output", "json", "--now", "2024-01-17")
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	status, err := runFlowdash(t, env, "analysis", "status")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(status), "Total Runs: 2"), string(status))
}
