package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rezonia/customs-valuator/internal/fx"
	"github.com/rezonia/customs-valuator/internal/processor"
)

// EnvPrefix is the prefix of environment overrides, e.g. CUSTOMS_SERVER_ADDRESS
const EnvPrefix = "CUSTOMS"

// DefaultFile is the config file name looked up in the working directory
const DefaultFile = "customs-valuator"

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Valuation ValuationConfig
	FX        FXConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ValuationConfig holds valuation settings
type ValuationConfig struct {
	// InsuranceFactor is applied to the goods value to derive overseas
	// insurance when a declaration carries no factor of its own
	InsuranceFactor float64
}

// FXConfig holds the exchange rate table.
// Rates are units of currency per 1 AUD.
type FXConfig struct {
	Rates     map[string]float64
	RatesFile string
}

// Load loads configuration from a YAML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CUSTOMS_ prefix (e.g., CUSTOMS_LOG_LEVEL)
// 2. The file at path, or ./customs-valuator.yaml when path is empty
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// An explicit path must exist; the default file is optional
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var rates map[string]float64
	if err := v.UnmarshalKey("fx.rates", &rates); err != nil {
		return nil, fmt.Errorf("error reading fx.rates: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Debug:        v.GetBool("server.debug"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Valuation: ValuationConfig{
			InsuranceFactor: v.GetFloat64("valuation.insurance_factor"),
		},
		FX: FXConfig{
			Rates:     rates,
			RatesFile: v.GetString("fx.rates_file"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns the built-in configuration without reading any source
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Valuation.InsuranceFactor == 0 {
		cfg.Valuation.InsuranceFactor = processor.DefaultInsuranceFactor
	}
	if cfg.FX.Rates == nil {
		cfg.FX.Rates = map[string]float64{}
	}
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console (got %q)", c.Log.Format)
	}
	if c.Valuation.InsuranceFactor < 0 || c.Valuation.InsuranceFactor >= 1 {
		return fmt.Errorf("valuation.insurance_factor must be in [0, 1) (got %v)", c.Valuation.InsuranceFactor)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	for code, rate := range c.FX.Rates {
		if rate <= 0 {
			return fmt.Errorf("fx.rates.%s must be positive (got %v)", code, rate)
		}
	}
	return nil
}

// RateTable builds the exchange rate table: the rates file first, then the
// inline rates on top
func (c *Config) RateTable() (fx.Table, error) {
	merged := map[string]float64{}
	if c.FX.RatesFile != "" {
		file, err := fx.LoadFile(c.FX.RatesFile)
		if err != nil {
			return nil, err
		}
		for code, rate := range file {
			merged[strings.ToUpper(code)] = rate
		}
	}
	for code, rate := range c.FX.Rates {
		merged[strings.ToUpper(code)] = rate
	}
	return fx.NewTable(merged), nil
}
