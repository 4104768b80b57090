// Package valuation validates invoices against the rule matrix and computes
// customs value, FOB and CIF.
//
// The customs value and FOB figures share one grouping of Incoterms and one
// formula per group, so the two calculations cannot drift apart.
package valuation

import (
	"github.com/rezonia/customs-valuator/internal/decimal"
	"github.com/rezonia/customs-valuator/internal/model"
)

// Group partitions Incoterms by how far along the shipping chain the seller
// carries cost
type Group int

const (
	// GroupOrigin covers terms where the buyer takes over at origin
	GroupOrigin Group = iota
	// GroupFreightPaid covers terms where the seller pays main carriage
	GroupFreightPaid
	// GroupFreightInsurancePaid covers terms where the seller pays main
	// carriage and insurance. It is also the fallback group.
	GroupFreightInsurancePaid
)

func (g Group) String() string {
	switch g {
	case GroupOrigin:
		return "origin"
	case GroupFreightPaid:
		return "freight-paid"
	case GroupFreightInsurancePaid:
		return "freight-insurance-paid"
	default:
		return "unknown"
	}
}

// GroupOf returns the formula group for an Incoterm.
// Any term not in the origin or freight-paid sets falls back to
// GroupFreightInsurancePaid, including DAT and the legacy terms.
func GroupOf(t model.Incoterm) Group {
	switch t {
	case model.IncotermEXW, model.IncotermFCA, model.IncotermFAS, model.IncotermFOB:
		return GroupOrigin
	case model.IncotermCFR, model.IncotermCPT:
		return GroupFreightPaid
	default:
		return GroupFreightInsurancePaid
	}
}

// Formula lists the elements added to and deducted from the goods value
type Formula struct {
	Additions  []model.Element
	Deductions []model.Element
}

var additions = []model.Element{
	model.ElementForeignInlandFreight,
	model.ElementPackingCosts,
	model.ElementCommission,
	model.ElementOtherAdditions,
}

var formulas = map[Group]Formula{
	GroupOrigin: {
		Additions: additions,
		Deductions: []model.Element{
			model.ElementLandingCharges,
			model.ElementDiscount,
			model.ElementOtherDeductions,
		},
	},
	GroupFreightPaid: {
		Additions: additions,
		Deductions: []model.Element{
			model.ElementOverseasFreight,
			model.ElementLandingCharges,
			model.ElementDiscount,
			model.ElementOtherDeductions,
		},
	},
	GroupFreightInsurancePaid: {
		Additions: additions,
		Deductions: []model.Element{
			model.ElementOverseasFreight,
			model.ElementOverseasInsurance,
			model.ElementLandingCharges,
			model.ElementDiscount,
			model.ElementOtherDeductions,
		},
	},
}

// FormulaFor returns the formula of a group. Unknown groups use the
// freight-insurance-paid formula.
func FormulaFor(g Group) Formula {
	f, ok := formulas[g]
	if !ok {
		f = formulas[GroupFreightInsurancePaid]
	}
	return Formula{
		Additions:  append([]model.Element{}, f.Additions...),
		Deductions: append([]model.Element{}, f.Deductions...),
	}
}

// Evaluate applies the formula to an invoice without rounding.
// Absent elements contribute zero.
func (f Formula) Evaluate(inv model.Invoice) decimal.Decimal {
	return decimal.FromFloat(inv.GoodsValueAUD).
		Add(decimal.SumFloats(amounts(inv, f.Additions)...)).
		Sub(decimal.SumFloats(amounts(inv, f.Deductions)...))
}

func amounts(inv model.Invoice, els []model.Element) []float64 {
	out := make([]float64, len(els))
	for i, el := range els {
		out[i] = inv.Amount(el)
	}
	return out
}

// Deducts reports whether the formula deducts the element
func (f Formula) Deducts(el model.Element) bool {
	for _, d := range f.Deductions {
		if d == el {
			return true
		}
	}
	return false
}
