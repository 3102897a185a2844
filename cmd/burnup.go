package cmd

import (
	"github.com/huangsam/flowdash/core"
	"github.com/huangsam/flowdash/internal/contract"
	"github.com/spf13/cobra"
)

// burnupCmd renders the hours burnup of a contract.
var burnupCmd = &cobra.Command{
	Use:   "burnup [customer]",
	Short: "Show the weekly hours burnup of a customer contract.",
	Long: `Accumulate effort hours week by week across the contract period and compare
them to the ideal straight line from zero to the contracted hours.

The current week is highlighted, along with the hours per week still needed
to finish on time.

Examples:
  # Hours burnup for a customer
  flowdash burnup acme

  # Pretend today is an earlier date
  flowdash burnup acme --now 2024-03-15

  # Render a bar chart instead of a table
  flowdash burnup acme --output chart

  # Export the weekly series to CSV
  flowdash burnup acme --output csv --output-file burnup.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHoursBurnup(rootCtx, cfg, dataSource, cacheManager); err != nil {
			contract.LogFatal("Cannot run hours burnup", err)
		}
	},
}

// demandsCmd renders the demand burnup of a customer.
var demandsCmd = &cobra.Command{
	Use:   "demands [customer]",
	Short: "Show the weekly demand burnup of a customer.",
	Long: `Count delivered demands week by week against a scope that grows as demands
are committed (or created, with --scope-date created).

Discarded demands never count toward the scope or the deliveries.

Examples:
  # Demand burnup using commitment dates as scope
  flowdash demands acme

  # Grow the scope from creation dates
  flowdash demands acme --scope-date created`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDemandBurnup(rootCtx, cfg, dataSource, cacheManager); err != nil {
			contract.LogFatal("Cannot run demand burnup", err)
		}
	},
}

// leadtimesCmd renders lead time percentiles.
var leadtimesCmd = &cobra.Command{
	Use:   "leadtimes [customer]",
	Short: "Show lead time percentiles for delivered demands.",
	Long: `Measure the days between commitment and delivery for each finished demand.

Prints the P80, average and maximum lead time, plus the P80 as it stood at the
end of every week since the first delivery.

Examples:
  # Lead times for a customer
  flowdash leadtimes acme

  # Weekly P80 as a chart
  flowdash leadtimes acme --output chart`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteLeadTimes(rootCtx, cfg, dataSource, cacheManager); err != nil {
			contract.LogFatal("Cannot run lead times", err)
		}
	},
}

// monthlyCmd renders consumed hours per calendar month.
var monthlyCmd = &cobra.Command{
	Use:   "monthly [customer]",
	Short: "Show consumed hours per calendar month of the contract.",
	Long: `Sum effort hours per calendar month inside the contract period.

Month names follow --locale (en or pt-BR).

Examples:
  # Monthly rollup in Portuguese
  flowdash monthly acme --locale pt-BR

  # JSON for a dashboard
  flowdash monthly acme --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMonthlyRollup(rootCtx, cfg, dataSource, cacheManager); err != nil {
			contract.LogFatal("Cannot run monthly rollup", err)
		}
	},
}
