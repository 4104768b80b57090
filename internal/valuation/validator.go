package valuation

import (
	"sort"

	"go.uber.org/zap"

	"github.com/rezonia/customs-valuator/internal/decimal"
	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/rules"
)

// GoodsValueField names the goods value in type violations
const GoodsValueField = "goodsValueAUD"

// Computed figure names used in out of range violations
const (
	CustomsValueField = "customsValueAUD"
	CIFField          = "cif"
)

// Validator checks invoices against a rule matrix.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	matrix *rules.Matrix
	logger *zap.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithMatrix replaces the built-in rule matrix
func WithMatrix(m *rules.Matrix) Option {
	return func(v *Validator) {
		if m != nil {
			v.matrix = m
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// NewValidator creates a validator using the default matrix unless overridden
func NewValidator(opts ...Option) *Validator {
	v := &Validator{
		matrix: rules.Default(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var defaultValidator = NewValidator()

// Validate checks an invoice with the default validator
func Validate(inv model.Invoice) model.ValidationResult {
	return defaultValidator.Validate(inv)
}

// Matrix returns the rule matrix used by the validator
func (v *Validator) Matrix() *rules.Matrix {
	return v.matrix
}

// Check returns every violation on the invoice, in a stable order:
// forbidden and unrecognised elements, missing mandatory elements,
// non-numeric element amounts, then a non-numeric goods value.
// Each entry is a *model.RuleViolation or *model.TypeViolation.
func (v *Validator) Check(inv model.Invoice) []error {
	var errs []error

	if !v.matrix.Supports(inv.Incoterm) {
		errs = append(errs, model.NewUnsupportedIncoterm(inv.Incoterm))
		if !decimal.IsFinite(inv.GoodsValueAUD) {
			errs = append(errs, model.NewTypeViolation(GoodsValueField))
		}
		return errs
	}

	for _, el := range model.Elements() {
		if inv.Has(el) && !v.matrix.IsAllowed(inv.Incoterm, el) {
			errs = append(errs, model.NewForbiddenElement(inv.Incoterm, el))
		}
	}
	for _, el := range unknownElements(inv) {
		errs = append(errs, model.NewUnknownElement(inv.Incoterm, el))
	}

	for _, el := range v.matrix.Mandatory(inv.Incoterm) {
		if !inv.Has(el) {
			errs = append(errs, model.NewMissingElement(inv.Incoterm, el))
		}
	}

	for _, el := range model.Elements() {
		if inv.Has(el) && !decimal.IsFinite(inv.Amount(el)) {
			errs = append(errs, model.NewTypeViolation(el.String()))
		}
	}

	if !decimal.IsFinite(inv.GoodsValueAUD) {
		errs = append(errs, model.NewTypeViolation(GoodsValueField))
	}

	return errs
}

// Validate checks the invoice and, when it has no violations, computes its
// customs value. An invalid result carries every violation message and no
// customs value.
func (v *Validator) Validate(inv model.Invoice) model.ValidationResult {
	errs := v.Check(inv)
	if len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, err := range errs {
			messages[i] = err.Error()
		}
		v.logger.Debug("invoice rejected",
			zap.String("incoterm", inv.Incoterm.String()),
			zap.Int("violations", len(errs)),
		)
		return model.ValidationResult{Valid: false, Errors: messages}
	}

	cv := CustomsValue(inv)
	if errs := checkRange(cv, ComputeFobCif(inv).CIF); len(errs) > 0 {
		v.logger.Debug("invoice out of range",
			zap.String("incoterm", inv.Incoterm.String()),
			zap.Strings("errors", errs),
		)
		return model.ValidationResult{Valid: false, Errors: errs}
	}
	v.logger.Debug("invoice valued",
		zap.String("incoterm", inv.Incoterm.String()),
		zap.String("group", GroupOf(inv.Incoterm).String()),
		zap.Float64("customs_value_aud", cv),
	)
	return model.ValidationResult{Valid: true, CustomsValueAUD: &cv}
}

// checkRange reports computed figures that overflowed float64
func checkRange(cv, cif float64) []string {
	var errs []string
	if !decimal.IsFinite(cv) {
		errs = append(errs, model.NewOutOfRange(CustomsValueField).Error())
	}
	if !decimal.IsFinite(cif) {
		errs = append(errs, model.NewOutOfRange(CIFField).Error())
	}
	return errs
}

// unknownElements returns element codes outside the declared set, sorted
func unknownElements(inv model.Invoice) []model.Element {
	var out []model.Element
	for el := range inv.Elements {
		if !el.IsValid() {
			out = append(out, el)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
