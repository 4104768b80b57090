package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/config"
	"github.com/rezonia/customs-valuator/internal/logger"
	"github.com/rezonia/customs-valuator/internal/processor"
)

var (
	version = "1.0.0"

	// Global flags
	cfgFile         string
	verbose         bool
	outputFormat    string
	logLevel        string
	insuranceFactor float64

	// Set by loadConfig before any command runs
	appConfig *config.Config
	log       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "customs-valuator",
	Short: "Value imported goods for customs declarations",
	Long: `Customs Valuator checks commercial invoices against the Incoterm
valuation rules and computes the customs value in AUD.

Supports:
  - Rule matrix for current and legacy Incoterms
  - Customs value, FOB and CIF derivation
  - Declaration payloads with line-level allocation and duty
  - HTTP API

Examples:
  # Calculate a declaration
  customs-valuator calculate declaration.json

  # Calculate several declarations as a table
  customs-valuator calculate declarations/ -f table

  # Validate an invoice
  customs-valuator validate invoice.yaml

  # Show the rules for CIF and DAP
  customs-valuator rules CIF DAP`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: ./customs-valuator.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json, yaml or table; calculate also takes csv")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (env: CUSTOMS_LOG_LEVEL)")
	rootCmd.PersistentFlags().Float64Var(&insuranceFactor, "insurance-factor", processor.DefaultInsuranceFactor,
		"Insurance factor applied to goods value (env: CUSTOMS_VALUATION_INSURANCE_FACTOR)")
}

// loadConfig reads the config file and environment, then applies flags on top
func loadConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if verbose && !flags.Changed("log-level") {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("insurance-factor") {
		if insuranceFactor < 0 || insuranceFactor >= 1 {
			return fmt.Errorf("insurance factor must be in [0, 1), got %v", insuranceFactor)
		}
		cfg.Valuation.InsuranceFactor = insuranceFactor
	}

	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	appConfig = cfg
	log = l
	return nil
}

// checkFormat rejects an output format the running command cannot write
func checkFormat(cmd *cobra.Command, format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format for %s: %s (use %s)", cmd.Name(), format, strings.Join(allowed, ", "))
}

func newProcessor() *processor.Processor {
	return processor.NewProcessor(
		processor.WithInsuranceFactor(appConfig.Valuation.InsuranceFactor),
		processor.WithLogger(log),
	)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
