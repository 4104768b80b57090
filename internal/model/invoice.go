package model

// Invoice is the valuation input for one commercial invoice.
//
// GoodsValueAUD is the invoice price of the goods, already converted to AUD
// and excluding any valuation element. Elements holds only the elements
// present on the invoice: a missing key means "not on this invoice", which
// is different from an explicit zero.
type Invoice struct {
	Incoterm      Incoterm            `json:"incoterm" yaml:"incoterm"`
	GoodsValueAUD float64             `json:"goodsValueAUD" yaml:"goodsValueAUD"`
	Elements      map[Element]float64 `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Amount returns the element amount, or 0 when the element is absent
func (inv Invoice) Amount(e Element) float64 {
	return inv.Elements[e]
}

// Has reports whether the element is present on the invoice
func (inv Invoice) Has(e Element) bool {
	_, ok := inv.Elements[e]
	return ok
}

// WithIncoterm returns a copy of the invoice under a new trade term.
// Elements are cleared because the allowed and mandatory sets differ per term.
func (inv Invoice) WithIncoterm(t Incoterm) Invoice {
	return Invoice{
		Incoterm:      t,
		GoodsValueAUD: inv.GoodsValueAUD,
		Elements:      map[Element]float64{},
	}
}

// ValidationResult is the outcome of validating an invoice.
// CustomsValueAUD is set only when Valid is true.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors,omitempty"`
	CustomsValueAUD *float64 `json:"customsValueAUD,omitempty"`
}

// FobCifResult holds the derived FOB and CIF amounts, both rounded to 2 places
type FobCifResult struct {
	FOB float64 `json:"fob"`
	CIF float64 `json:"cif"`
}
