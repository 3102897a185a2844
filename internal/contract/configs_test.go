package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/flowdash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation, for tests to tweak.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Customer:     "acme",
		Source:       "graphql",
		Endpoint:     "https://flow.example.com/graphql",
		Precision:    1,
		Output:       "text",
		Locale:       "en",
		CacheBackend: "none",
		Emoji:        "no",
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"file source", func(in *ConfigRawInput) { in.Source = "FILE"; in.DatasetFile = "data.yaml" }, false},
		{"file source without dataset", func(in *ConfigRawInput) { in.Source = "file" }, true},
		{"unknown source", func(in *ConfigRawInput) { in.Source = "jira" }, true},
		{"graphql without endpoint", func(in *ConfigRawInput) { in.Endpoint = "" }, true},
		{"relative endpoint", func(in *ConfigRawInput) { in.Endpoint = "/graphql" }, true},
		{"invalid precision", func(in *ConfigRawInput) { in.Precision = 3 }, true},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"chart output", func(in *ConfigRawInput) { in.Output = "chart" }, false},
		{"parquet without file", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"parquet with file", func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }, false},
		{"invalid locale", func(in *ConfigRawInput) { in.Locale = "fr" }, true},
		{"invalid scope date", func(in *ConfigRawInput) { in.ScopeDate = "closed" }, true},
		{"invalid emoji", func(in *ConfigRawInput) { in.Emoji = "maybe" }, true},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "sometimes" }, true},
		{"invalid timeout", func(in *ConfigRawInput) { in.Timeout = "soon" }, true},
		{"invalid cache ttl", func(in *ConfigRawInput) { in.CacheTTL = "0s" }, true},
		{"invalid now", func(in *ConfigRawInput) { in.Now = "next tuesday" }, true},
		{"invalid cache backend", func(in *ConfigRawInput) { in.CacheBackend = "redis" }, true},
		{"mysql without dsn", func(in *ConfigRawInput) { in.CacheBackend = "mysql" }, true},
		{"invalid analysis backend", func(in *ConfigRawInput) { in.AnalysisBackend = "redis" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)
			err := ProcessAndValidate(&Config{}, input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput(), fixedNow))

	assert.Equal(t, "acme", cfg.Customer)
	assert.Equal(t, schema.GraphQLSource, cfg.Source)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.EnglishLocale, cfg.Locale)
	assert.Equal(t, schema.CommitmentScopeDate, cfg.ScopeDate)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, fixedNow, cfg.Now)
	assert.False(t, cfg.UseEmojis)
	assert.True(t, cfg.UseColors)
}

func TestProcessAndValidateOverrides(t *testing.T) {
	input := validInput()
	input.CustomerArg = "globex"
	input.Locale = "PT-br"
	input.ScopeDate = "Created"
	input.Timeout = "5 seconds"
	input.CacheTTL = "2h"
	input.Addr = "127.0.0.1:9000"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input, fixedNow))

	assert.Equal(t, "globex", cfg.Customer)
	assert.Equal(t, schema.PortugueseLocale, cfg.Locale)
	assert.Equal(t, schema.CreatedScopeDate, cfg.ScopeDate)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestProcessNow(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"", fixedNow},
		{"2024-01-15", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15T08:00:00Z", time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC)},
		{"2 weeks ago", fixedNow.AddDate(0, 0, -14)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			input := validInput()
			input.Now = tt.input
			cfg := &Config{}
			require.NoError(t, ProcessAndValidate(cfg, input, fixedNow))
			assert.True(t, tt.expected.Equal(cfg.Now), "got %v", cfg.Now)
			assert.Equal(t, tt.input != "", cfg.NowPinned)
		})
	}
}

func TestWithCurrentTime(t *testing.T) {
	later := fixedNow.Add(48 * time.Hour)

	floating := &Config{Now: fixedNow}
	refreshed := floating.WithCurrentTime(later)
	assert.Equal(t, later, refreshed.Now)
	assert.Equal(t, fixedNow, floating.Now, "original is untouched")

	pinned := &Config{Now: fixedNow, NowPinned: true}
	assert.Equal(t, fixedNow, pinned.WithCurrentTime(later).Now)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite needs nothing", schema.SQLiteBackend, "", false},
		{"none needs nothing", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/flowdash", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/flowdash", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=u password=p dbname=flowdash", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=flowdash", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")

	input := validInput()
	input.CacheBackend = "sqlite"
	input.CacheDBConnect = shared
	input.AnalysisBackend = "sqlite"
	input.AnalysisDBConnect = shared
	assert.Error(t, ProcessAndValidate(&Config{}, input, fixedNow))

	input.AnalysisDBConnect = filepath.Join(t.TempDir(), "analysis.db")
	assert.NoError(t, ProcessAndValidate(&Config{}, input, fixedNow))

	input.CacheDBConnect = ""
	input.AnalysisDBConnect = ""
	assert.NoError(t, ProcessAndValidate(&Config{}, input, fixedNow))
}

func TestConfigCloneWithCustomer(t *testing.T) {
	cfg := &Config{Customer: "acme", Precision: 2}
	clone := cfg.CloneWithCustomer("globex")
	assert.Equal(t, "globex", clone.Customer)
	assert.Equal(t, 2, clone.Precision)
	assert.Equal(t, "acme", cfg.Customer)
}
