package valuationlib

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rezonia/customs-valuator/internal/processor"
	"github.com/rezonia/customs-valuator/internal/valuation"
)

// Processor values invoices and declaration payloads. It is safe for
// concurrent use.
type Processor struct {
	proc    *processor.Processor
	options Options
}

// NewProcessor creates a new processor with the given options
func NewProcessor(opts Options) *Processor {
	defaults := DefaultOptions()
	if opts.InsuranceFactor == 0 {
		opts.InsuranceFactor = defaults.InsuranceFactor
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaults.Concurrency
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Processor{
		proc: processor.NewProcessor(
			processor.WithInsuranceFactor(opts.InsuranceFactor),
			processor.WithLogger(opts.Logger),
		),
		options: opts,
	}
}

// NewDefaultProcessor creates a processor with default options
func NewDefaultProcessor() *Processor {
	return NewProcessor(DefaultOptions())
}

// Validate checks an invoice against the rule matrix and returns its
// customs value when valid
func (p *Processor) Validate(inv Invoice) ValidationResult {
	return p.proc.Validator().Validate(inv)
}

// ComputeFobCif derives FOB and CIF for an invoice. Call it only on
// invoices that pass Validate.
func (p *Processor) ComputeFobCif(inv Invoice) FobCifResult {
	return valuation.ComputeFobCif(inv)
}

// Process validates a payload and returns its customs value
func (p *Processor) Process(payload DeclarationPayload) ValidationResult {
	return p.proc.Process(payload)
}

// Declare produces the full valuation worksheet for a payload
func (p *Processor) Declare(payload DeclarationPayload) Declaration {
	return p.proc.Declare(payload)
}

// ProcessBatch declares payloads concurrently. Results keep the input
// order. It stops early and returns ctx.Err() when ctx is cancelled.
func (p *Processor) ProcessBatch(ctx context.Context, payloads []DeclarationPayload) ([]Declaration, error) {
	results := make([]Declaration, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.options.Concurrency)

	for i, payload := range payloads {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.proc.Declare(payload)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
