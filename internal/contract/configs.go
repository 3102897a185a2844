package contract

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/flowdash/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	DefaultTimeout   = 30 * time.Second
	DefaultCacheTTL  = time.Hour
	DefaultAddr      = ":8080"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DateFormat is the date-only representation accepted for --now.
const DateFormat = "2006-01-02"

// Config holds the runtime configuration for the dashboard metrics.
// This struct remains the "final, validated" config.
type Config struct {
	Customer string

	Source      schema.SourceKind
	Endpoint    string
	Token       string // Please use env var as this is plaintext
	DatasetFile string
	QueryFile   string
	Timeout     time.Duration

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	Locale     schema.Locale
	ScopeDate  schema.ScopeDateField

	// Now is the reference instant for "current week" math.
	Now time.Time
	// NowPinned is set when Now came from --now rather than the wall clock.
	NowPinned bool

	CacheTTL       time.Duration
	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	AnalysisBackend   schema.DatabaseBackend
	AnalysisDBConnect string // Please use env var as this is plaintext

	Addr string // Listen address of the HTTP API

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args when given
	CustomerArg string

	// --- Fields from rootCmd.PersistentFlags() ---
	Customer          string `mapstructure:"customer"`
	Source            string `mapstructure:"source"`
	Endpoint          string `mapstructure:"endpoint"`
	Token             string `mapstructure:"token"`
	DatasetFile       string `mapstructure:"dataset-file"`
	QueryFile         string `mapstructure:"query-file"`
	Timeout           string `mapstructure:"timeout"`
	OutputFile        string `mapstructure:"output-file"`
	Precision         int    `mapstructure:"precision"`
	Output            string `mapstructure:"output"`
	Width             int    `mapstructure:"width"`
	Locale            string `mapstructure:"locale"`
	Now               string `mapstructure:"now"`
	CacheTTL          string `mapstructure:"cache-ttl"`
	CacheBackend      string `mapstructure:"cache-backend"`
	CacheDBConnect    string `mapstructure:"cache-db-connect"`
	AnalysisBackend   string `mapstructure:"analysis-backend"`
	AnalysisDBConnect string `mapstructure:"analysis-db-connect"`
	Emoji             string `mapstructure:"emoji"`
	Color             string `mapstructure:"color"`

	// --- Fields from demandsCmd.Flags() ---
	ScopeDate string `mapstructure:"scope-date"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// CloneWithCustomer creates a copy of the Config targeting another customer.
func (c *Config) CloneWithCustomer(customer string) *Config {
	clone := c.Clone()
	clone.Customer = customer
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct. now is the wall clock used when no
// --now override is given.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processSource(cfg, input); err != nil {
		return err
	}
	if err := processDurations(cfg, input); err != nil {
		return err
	}
	if err := processNow(cfg, input, now); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and analysis backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Analysis Backend Validation ---
	cfg.AnalysisBackend = schema.DatabaseBackend(strings.ToLower(input.AnalysisBackend))
	if cfg.AnalysisBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.AnalysisBackend]; !ok {
		return fmt.Errorf("invalid analysis backend '%s'. must be sqlite, mysql, postgresql, none", input.AnalysisBackend)
	}
	cfg.AnalysisDBConnect = input.AnalysisDBConnect
	if err := ValidateDatabaseConnectionString(cfg.AnalysisBackend, cfg.AnalysisDBConnect); err != nil {
		return err
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.AnalysisBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		analysisDBPath := cfg.AnalysisDBConnect
		if analysisDBPath == "" {
			analysisDBPath = GetAnalysisDBFilePath()
		}
		if cacheDBPath == analysisDBPath {
			return fmt.Errorf("cache and analysis storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all presentation related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Customer = strings.TrimSpace(input.Customer)
	if arg := strings.TrimSpace(input.CustomerArg); arg != "" {
		cfg.Customer = arg
	}
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, chart", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 2. Locale Validation ---
	cfg.Locale = ""
	for locale := range schema.ValidLocales {
		if strings.EqualFold(string(locale), input.Locale) {
			cfg.Locale = locale
		}
	}
	if cfg.Locale == "" {
		return fmt.Errorf("invalid locale '%s'. must be en, pt-BR", input.Locale)
	}

	// --- 3. Scope Date Validation ---
	cfg.ScopeDate = schema.ScopeDateField(strings.ToLower(input.ScopeDate))
	if cfg.ScopeDate == "" {
		cfg.ScopeDate = schema.CommitmentScopeDate
	}
	if _, ok := schema.ValidScopeDateFields[cfg.ScopeDate]; !ok {
		return fmt.Errorf("invalid scope date '%s'. must be commitment, created", input.ScopeDate)
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processSource validates where datasets come from.
func processSource(cfg *Config, input *ConfigRawInput) error {
	cfg.Source = schema.SourceKind(strings.ToLower(input.Source))
	if _, ok := schema.ValidSourceKinds[cfg.Source]; !ok {
		return fmt.Errorf("invalid source '%s'. must be file, graphql", input.Source)
	}
	cfg.Endpoint = strings.TrimSpace(input.Endpoint)
	cfg.Token = input.Token
	cfg.DatasetFile = strings.TrimSpace(input.DatasetFile)
	cfg.QueryFile = strings.TrimSpace(input.QueryFile)

	switch cfg.Source {
	case schema.FileSource:
		if cfg.DatasetFile == "" {
			return fmt.Errorf("--dataset-file is required when using the %s source", cfg.Source)
		}
	case schema.GraphQLSource:
		if cfg.Endpoint == "" {
			return fmt.Errorf("--endpoint is required when using the %s source", cfg.Source)
		}
		u, err := url.Parse(cfg.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint must be an absolute http(s) URL (received %q)", cfg.Endpoint)
		}
	}
	return nil
}

// processDurations parses the upstream timeout and the cache TTL.
func processDurations(cfg *Config, input *ConfigRawInput) error {
	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := ParseLookbackDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid --timeout: %w", err)
		}
		cfg.Timeout = timeout
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := ParseLookbackDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid --cache-ttl: %w", err)
		}
		cfg.CacheTTL = ttl
	}
	return nil
}

// processNow resolves the reference instant from --now, defaulting to the wall clock.
func processNow(cfg *Config, input *ConfigRawInput, now time.Time) error {
	cfg.Now = now
	cfg.NowPinned = false
	s := strings.TrimSpace(input.Now)
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateTimeFormat, s)
	if err != nil {
		t, err = time.Parse(DateFormat, s)
	}
	if err != nil {
		t, err = ParseRelativeTime(s, now)
	}
	if err != nil {
		return fmt.Errorf("invalid --now value '%s'. Expected ISO8601 date or 'N [units] ago': %w", s, err)
	}
	cfg.Now = t
	cfg.NowPinned = true
	return nil
}

// WithCurrentTime returns a copy of the Config whose Now tracks the given
// wall clock, unless --now pinned it.
func (c *Config) WithCurrentTime(now time.Time) *Config {
	clone := c.Clone()
	if !clone.NowPinned {
		clone.Now = now
	}
	return clone
}
