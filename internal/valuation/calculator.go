package valuation

import (
	"github.com/rezonia/customs-valuator/internal/decimal"
	"github.com/rezonia/customs-valuator/internal/model"
)

// CustomsValue computes the customs value of an invoice in AUD, rounded to
// 2 places. The invoice is assumed to be validated; absent elements count
// as zero. Non-finite amounts panic.
func CustomsValue(inv model.Invoice) float64 {
	return decimal.ToFloat(customsValue(inv))
}

func customsValue(inv model.Invoice) decimal.Decimal {
	return FormulaFor(GroupOf(inv.Incoterm)).Evaluate(inv).Round(decimal.MoneyPlaces)
}

// ComputeFobCif derives FOB and CIF for an invoice.
//
// FOB uses the customs value formula. CIF adds overseas freight and
// insurance back onto the already rounded FOB, for every group.
func ComputeFobCif(inv model.Invoice) model.FobCifResult {
	fob := customsValue(inv)
	cif := fob.
		Add(decimal.SumFloats(
			inv.Amount(model.ElementOverseasFreight),
			inv.Amount(model.ElementOverseasInsurance),
		)).
		Round(decimal.MoneyPlaces)

	return model.FobCifResult{
		FOB: decimal.ToFloat(fob),
		CIF: decimal.ToFloat(cif),
	}
}
