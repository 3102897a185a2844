package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and tracking.
	DatabaseBackend string

	// SourceKind represents where datasets are fetched from.
	SourceKind string

	// MetricKind represents the dashboard metric a run produces.
	MetricKind string

	// ScopeDateField selects which item date counts as scope creation.
	ScopeDateField string

	// Locale selects month names for monthly rollups.
	Locale string

	// PaceStatus classifies a burnup against its ideal line.
	PaceStatus string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	ChartOut   OutputMode = "chart"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All data sources supported.
const (
	FileSource    SourceKind = "file"
	GraphQLSource SourceKind = "graphql" // default
)

// All metrics supported.
const (
	HoursBurnupMetric   MetricKind = "hours_burnup"
	DemandBurnupMetric  MetricKind = "demand_burnup"
	LeadTimesMetric     MetricKind = "lead_times"
	MonthlyRollupMetric MetricKind = "monthly_rollup"
)

// All scope date fields supported.
const (
	CommitmentScopeDate ScopeDateField = "commitment" // default
	CreatedScopeDate    ScopeDateField = "created"
)

// All locales supported.
const (
	EnglishLocale    Locale = "en" // default
	PortugueseLocale Locale = "pt-BR"
)

// All pace states.
const (
	OnTrackPace  PaceStatus = "On track"
	BehindPace   PaceStatus = "Behind"
	ExceededPace PaceStatus = "Exceeded"
	NotStarted   PaceStatus = "Not started"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	ChartOut:   {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidSourceKinds lists all valid data sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	FileSource:    {},
	GraphQLSource: {},
}

// ValidScopeDateFields lists all valid scope date fields.
var ValidScopeDateFields = map[ScopeDateField]struct{}{
	CommitmentScopeDate: {},
	CreatedScopeDate:    {},
}

// ValidLocales lists all valid locales.
var ValidLocales = map[Locale]struct{}{
	EnglishLocale:    {},
	PortugueseLocale: {},
}
