// Package rules holds the Incoterm to valuation element rule matrix.
//
// The matrix is static data: for every declared Incoterm and every declared
// valuation element it defines exactly one rule (Mandatory, Optional or
// Forbidden). Completeness is checked when a matrix is built, so a lookup on
// a declared pair can never miss at runtime.
package rules

import (
	"github.com/rezonia/customs-valuator/internal/model"
)

const (
	m = model.RuleMandatory
	o = model.RuleOptional
	x = model.RuleForbidden
)

// Row is the rule for each element under one Incoterm
type Row map[model.Element]model.Rule

// Table maps each Incoterm to its row
type Table map[model.Incoterm]Row

// row builds a Row from rules listed in canonical element order:
// PC, FIF, ONS, OFT, LCH, COMM, OTA, OTD, DSC
func row(pc, fif, ons, oft, lch, comm, ota, otd, dsc model.Rule) Row {
	return Row{
		model.ElementPackingCosts:         pc,
		model.ElementForeignInlandFreight: fif,
		model.ElementOverseasInsurance:    ons,
		model.ElementOverseasFreight:      oft,
		model.ElementLandingCharges:       lch,
		model.ElementCommission:           comm,
		model.ElementOtherAdditions:       ota,
		model.ElementOtherDeductions:      otd,
		model.ElementDiscount:             dsc,
	}
}

// ABF ICS valuation rules
var defaultTable = Table{
	//                       PC FIF ONS OFT LCH COMM OTA OTD DSC
	model.IncotermEXW: row(o, o, o, o, x, o, o, o, o),
	model.IncotermFCA: row(o, o, o, o, x, o, o, o, o),
	model.IncotermFAS: row(x, x, o, o, x, o, o, o, o),
	model.IncotermFOB: row(x, x, o, o, x, o, o, o, o),

	model.IncotermCFR: row(x, x, o, m, x, o, o, o, o),
	model.IncotermCPT: row(x, x, o, m, x, o, o, o, o),

	model.IncotermCIF: row(x, x, m, m, x, o, o, o, o),
	model.IncotermCIP: row(x, x, m, m, x, o, o, o, o),

	model.IncotermDAP: row(x, x, o, m, m, o, o, o, o),
	model.IncotermDAT: row(x, x, o, m, m, o, o, o, o),
	model.IncotermDPU: row(x, x, o, m, m, o, o, o, o),
	model.IncotermDDP: row(x, x, o, m, m, o, o, o, o),

	// Legacy
	model.IncotermDES: row(o, x, o, o, x, o, o, o, o),
	model.IncotermDEQ: row(o, x, o, o, m, o, o, o, o),
	model.IncotermDDU: row(o, x, o, o, m, o, o, o, o),
}

// Matrix answers rule queries. It is immutable and safe for concurrent use.
type Matrix struct {
	rules Table
}

var defaultMatrix = MustMatrix(defaultTable)

// Default returns the built-in ABF ICS matrix
func Default() *Matrix {
	return defaultMatrix
}

// DefaultTable returns a copy of the built-in rule table
func DefaultTable() Table {
	return copyTable(defaultTable)
}

// NewMatrix builds a matrix from a table, rejecting tables that do not
// define a valid rule for every declared Incoterm and element pair.
// Rows and cells outside the declared sets are dropped.
func NewMatrix(table Table) (*Matrix, error) {
	var missing []model.RulePair
	for _, term := range model.Incoterms() {
		for _, el := range model.Elements() {
			r, ok := table[term][el]
			if !ok || !r.IsValid() {
				missing = append(missing, model.RulePair{Incoterm: term, Element: el})
			}
		}
	}
	if len(missing) > 0 {
		return nil, model.NewConfigurationError("no rule defined", missing...)
	}
	return &Matrix{rules: declaredTable(table)}, nil
}

// MustMatrix is like NewMatrix but panics on an incomplete table
func MustMatrix(table Table) *Matrix {
	mx, err := NewMatrix(table)
	if err != nil {
		panic(err)
	}
	return mx
}

// RuleFor returns the rule for an Incoterm and element.
// Both must be in the declared sets; anything else is a configuration
// defect and panics with a *model.ConfigurationError.
func (mx *Matrix) RuleFor(t model.Incoterm, el model.Element) model.Rule {
	r, ok := mx.rules[t][el]
	if !ok {
		panic(model.NewConfigurationError("lookup outside declared sets", model.RulePair{Incoterm: t, Element: el}))
	}
	return r
}

// IsAllowed reports whether the element may appear under the Incoterm
func (mx *Matrix) IsAllowed(t model.Incoterm, el model.Element) bool {
	return mx.RuleFor(t, el) != model.RuleForbidden
}

// IsMandatory reports whether the element must appear under the Incoterm
func (mx *Matrix) IsMandatory(t model.Incoterm, el model.Element) bool {
	return mx.RuleFor(t, el) == model.RuleMandatory
}

// Supports reports whether the Incoterm is declared and has a row in this
// matrix
func (mx *Matrix) Supports(t model.Incoterm) bool {
	if !t.IsValid() {
		return false
	}
	_, ok := mx.rules[t]
	return ok
}

// Row returns a copy of the rules for an Incoterm
func (mx *Matrix) Row(t model.Incoterm) Row {
	src, ok := mx.rules[t]
	if !ok {
		return nil
	}
	out := make(Row, len(src))
	for el, r := range src {
		out[el] = r
	}
	return out
}

// Mandatory lists the Mandatory elements for an Incoterm in canonical order
func (mx *Matrix) Mandatory(t model.Incoterm) []model.Element {
	return mx.filter(t, func(r model.Rule) bool { return r == model.RuleMandatory })
}

// Allowed lists the Mandatory and Optional elements for an Incoterm
func (mx *Matrix) Allowed(t model.Incoterm) []model.Element {
	return mx.filter(t, func(r model.Rule) bool { return r != model.RuleForbidden })
}

// Forbidden lists the Forbidden elements for an Incoterm
func (mx *Matrix) Forbidden(t model.Incoterm) []model.Element {
	return mx.filter(t, func(r model.Rule) bool { return r == model.RuleForbidden })
}

func (mx *Matrix) filter(t model.Incoterm, keep func(model.Rule) bool) []model.Element {
	out := make([]model.Element, 0)
	for _, el := range model.Elements() {
		if keep(mx.RuleFor(t, el)) {
			out = append(out, el)
		}
	}
	return out
}

func copyTable(src Table) Table {
	out := make(Table, len(src))
	for term, r := range src {
		cp := make(Row, len(r))
		for el, rule := range r {
			cp[el] = rule
		}
		out[term] = cp
	}
	return out
}

// declaredTable copies the declared Incoterm and element cells of src
func declaredTable(src Table) Table {
	terms := model.Incoterms()
	out := make(Table, len(terms))
	for _, term := range terms {
		cp := make(Row, len(model.Elements()))
		for _, el := range model.Elements() {
			cp[el] = src[term][el]
		}
		out[term] = cp
	}
	return out
}
