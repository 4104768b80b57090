// Package processor turns external declaration payloads into validated
// customs valuations.
package processor

import (
	"math"

	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/decimal"
	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/valuation"
)

// DefaultInsuranceFactor is the overseas insurance rate applied to the goods
// value when a payload does not carry its own factor
const DefaultInsuranceFactor = 0.0025

// externalCodes maps the payload element vocabulary to canonical elements.
// ONS is absent on purpose: insurance is always derived from the factor.
var externalCodes = map[string]model.Element{
	"FIF": model.ElementForeignInlandFreight,
	"PCT": model.ElementPackingCosts,
	"COM": model.ElementCommission,
	"OTA": model.ElementOtherAdditions,
	"OFT": model.ElementOverseasFreight,
	"LCH": model.ElementLandingCharges,
	"DIS": model.ElementDiscount,
	"OTS": model.ElementOtherDeductions,
}

// ExternalCode returns the canonical element for an external payload code
func ExternalCode(code string) (model.Element, bool) {
	el, ok := externalCodes[code]
	return el, ok
}

// Processor validates and values declaration payloads.
// It is safe for concurrent use.
type Processor struct {
	validator *valuation.Validator
	factor    float64
	logger    *zap.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithInsuranceFactor sets the default insurance factor
func WithInsuranceFactor(k float64) Option {
	return func(p *Processor) {
		p.factor = k
	}
}

// WithValidator sets the validator
func WithValidator(v *valuation.Validator) Option {
	return func(p *Processor) {
		if v != nil {
			p.validator = v
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Processor) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProcessor creates a new declaration processor
func NewProcessor(opts ...Option) *Processor {
	p := &Processor{
		factor: DefaultInsuranceFactor,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.validator == nil {
		p.validator = valuation.NewValidator(valuation.WithLogger(p.logger))
	}
	return p
}

// InsuranceFactor returns the default insurance factor
func (p *Processor) InsuranceFactor() float64 {
	return p.factor
}

// Validator returns the validator used by the processor
func (p *Processor) Validator() *valuation.Validator {
	return p.validator
}

// Invoice builds the canonical invoice for a payload.
//
// Overseas insurance is always Round2(ITOT × k), ignoring any insurance
// figure in the payload. Other codes are mapped through the external code
// table; nil and zero amounts are dropped and unmapped codes are ignored.
// A missing ITOT becomes NaN so validation reports it.
func (p *Processor) Invoice(payload model.DeclarationPayload) model.Invoice {
	goods := math.NaN()
	if v := payload.Valuation[model.GoodsValueCode]; v != nil {
		goods = *v
	}

	k := p.factor
	if payload.K != nil {
		k = *payload.K
	}

	elements := map[model.Element]float64{
		model.ElementOverseasInsurance: decimal.Round2(goods * k),
	}
	for code, amount := range payload.Valuation {
		if code == model.GoodsValueCode || amount == nil || *amount == 0 {
			continue
		}
		if el, ok := externalCodes[code]; ok {
			elements[el] = *amount
		}
	}

	return model.Invoice{
		Incoterm:      payload.Incoterm,
		GoodsValueAUD: goods,
		Elements:      elements,
	}
}

// Process validates a payload and returns its customs value.
// Domain failures are reported in the result, never as a Go error.
func (p *Processor) Process(payload model.DeclarationPayload) model.ValidationResult {
	return p.validator.Validate(p.Invoice(payload))
}

// Declare produces the full valuation worksheet for a payload: the header
// result, FOB and CIF, and the customs value and duty allocated to each
// line. An invalid payload yields only the result.
func (p *Processor) Declare(payload model.DeclarationPayload) model.Declaration {
	inv := p.Invoice(payload)
	decl := model.Declaration{
		Incoterm: payload.Incoterm,
		FXRate:   payload.FXRate,
		Result:   p.validator.Validate(inv),
	}

	if !decl.Result.Valid {
		p.logger.Debug("declaration rejected",
			zap.String("incoterm", payload.Incoterm.String()),
			zap.Strings("errors", decl.Result.Errors),
		)
		return decl
	}

	method, err := model.ParseAllocationMethod(string(payload.AllocationMethod))
	if err != nil {
		decl.Result = model.ValidationResult{Valid: false, Errors: []string{err.Error()}}
		return decl
	}

	if errs := checkLines(payload.Lines, method, payload.ManualSplits); len(errs) > 0 {
		return p.rejectLines(decl, errs)
	}
	lines, errs := allocate(payload.Lines, method, payload.ManualSplits, *decl.Result.CustomsValueAUD)
	if len(errs) > 0 {
		return p.rejectLines(decl, errs)
	}

	fobCif := valuation.ComputeFobCif(inv)
	decl.FobCif = &fobCif
	decl.Lines = lines

	p.logger.Debug("declaration valued",
		zap.String("incoterm", payload.Incoterm.String()),
		zap.Float64("customs_value_aud", *decl.Result.CustomsValueAUD),
		zap.Float64("fob", fobCif.FOB),
		zap.Float64("cif", fobCif.CIF),
		zap.Int("lines", len(decl.Lines)),
		zap.String("allocation", string(method)),
	)

	return decl
}

func (p *Processor) rejectLines(decl model.Declaration, errs []string) model.Declaration {
	p.logger.Debug("declaration lines rejected",
		zap.String("incoterm", decl.Incoterm.String()),
		zap.Strings("errors", errs),
	)
	decl.Result = model.ValidationResult{Valid: false, Errors: errs}
	return decl
}
