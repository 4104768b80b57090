package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for customs valuation.

The API provides endpoints for:
  - GET  /api/v1/incoterms        - List the rule matrix
  - GET  /api/v1/incoterms/:code  - Rules and display hints for one Incoterm
  - POST /api/v1/validate         - Validate an invoice
  - POST /api/v1/customs-value    - Compute customs value
  - POST /api/v1/fob-cif          - Compute FOB and CIF
  - POST /api/v1/declarations     - Value a declaration payload
  - POST /api/v1/distribute       - Split totals into shares
  - POST /api/v1/convert          - Convert between AUD and a currency
  - GET  /health                  - Health check

Examples:
  # Start server on the configured address
  customs-valuator serve

  # Start on a custom port
  customs-valuator serve --address :9090

  # Start in debug mode
  customs-valuator serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address (env: CUSTOMS_SERVER_ADDRESS)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 15*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 15*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig.Server
	flags := cmd.Flags()
	if flags.Changed("address") {
		cfg.Address = serverAddr
	}
	if flags.Changed("debug") {
		cfg.Debug = serverDebug
	}
	if flags.Changed("read-timeout") {
		cfg.ReadTimeout = readTimeout
	}
	if flags.Changed("write-timeout") {
		cfg.WriteTimeout = writeTimeout
	}

	rates, err := appConfig.RateTable()
	if err != nil {
		return err
	}

	srv := server.NewServer(&server.Config{
		Address:      cfg.Address,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Debug:        cfg.Debug,
	},
		server.WithLogger(log),
		server.WithProcessor(newProcessor()),
		server.WithRates(rates),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("address", cfg.Address),
		zap.Float64("insurance_factor", appConfig.Valuation.InsuranceFactor),
		zap.Strings("currencies", rates.Currencies()),
	)
	defer func() { _ = log.Sync() }()

	return srv.Run(ctx)
}
