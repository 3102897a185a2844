package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/flowdash/internal/httpapi"
	"github.com/spf13/cobra"
)

// serveCmd starts the JSON HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Flowdash HTTP API",
	Long: `Serve every metric as JSON for a dashboard front end.

Routes:
  GET /healthz
  GET /api/customers/:customer/burnup/hours
  GET /api/customers/:customer/burnup/demands?scope_date=commitment|created
  GET /api/customers/:customer/leadtimes
  GET /api/customers/:customer/monthly?locale=en|pt-BR

Every metric route also accepts ?now=YYYY-MM-DD to pin the current week.

Examples:
  # Serve on the default address
  flowdash serve --endpoint https://example.com/graphql

  # Serve a local dataset on another port
  flowdash serve --source file --dataset-file dataset.yaml --addr :9090`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return httpapi.StartHTTPServer(ctx, cfg, dataSource, cacheManager)
	},
}
