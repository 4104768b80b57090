package valuationlib

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/processor"
)

// Options configures a Processor
type Options struct {
	// InsuranceFactor derives overseas insurance from the goods value
	// when a payload carries no factor of its own (default: 0.0025 when
	// zero). A payload k of 0 still disables insurance for that payload.
	InsuranceFactor float64

	// Concurrency caps the payloads declared at once by ProcessBatch
	// (default: GOMAXPROCS)
	Concurrency int

	// Logger receives debug output; nil discards it
	Logger *zap.Logger
}

// DefaultOptions returns default processor options
func DefaultOptions() Options {
	return Options{
		InsuranceFactor: processor.DefaultInsuranceFactor,
		Concurrency:     runtime.GOMAXPROCS(0),
	}
}
