// Package cmd defines the command-line interface for flowdash.
package cmd

import (
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/huangsam/flowdash/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(burnupCmd)
	rootCmd.AddCommand(demandsCmd)
	rootCmd.AddCommand(leadtimesCmd)
	rootCmd.AddCommand(monthlyCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(serveCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("customer", "c", "", "Customer whose contract and demands are analyzed")
	rootCmd.PersistentFlags().String("source", string(schema.GraphQLSource), "Data source: graphql or file")
	rootCmd.PersistentFlags().String("endpoint", "", "GraphQL endpoint URL for the graphql source")
	rootCmd.PersistentFlags().String("token", "", "Bearer token for the GraphQL endpoint (prefer FLOWDASH_TOKEN)")
	rootCmd.PersistentFlags().String("dataset-file", "", "JSON or YAML dataset file for the file source")
	rootCmd.PersistentFlags().String("query-file", "", "Optional file holding a custom GraphQL query")
	rootCmd.PersistentFlags().String("timeout", "", "Upstream request timeout (e.g. '45 seconds')")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet or chart")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("locale", string(schema.EnglishLocale), "Month name locale: en or pt-BR")
	rootCmd.PersistentFlags().String("now", "", "Reference date for the current week in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("cache-ttl", "", "How long a cached dataset stays fresh (e.g. '2 hours')")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("emoji", "no", "Enable emojis in output headers (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of demandsCmd to Viper
	demandsCmd.Flags().String("scope-date", string(schema.CommitmentScopeDate), "Date that adds a demand to the scope: commitment or created")
	if err := viper.BindPFlags(demandsCmd.Flags()); err != nil {
		contract.LogFatal("Error binding demands flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().String("addr", contract.DefaultAddr, "Listen address of the HTTP API")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
