package model

import "strings"

// Element is a valuation element: a surcharge or deduction applied to goods value
type Element string

// Canonical valuation element codes
const (
	ElementPackingCosts         Element = "PC"
	ElementForeignInlandFreight Element = "FIF"
	ElementOverseasInsurance    Element = "ONS"
	ElementOverseasFreight      Element = "OFT"
	ElementLandingCharges       Element = "LCH"
	ElementCommission           Element = "COMM"
	ElementOtherAdditions       Element = "OTA"
	ElementOtherDeductions      Element = "OTD"
	ElementDiscount             Element = "DSC"
)

var elements = []Element{
	ElementPackingCosts,
	ElementForeignInlandFreight,
	ElementOverseasInsurance,
	ElementOverseasFreight,
	ElementLandingCharges,
	ElementCommission,
	ElementOtherAdditions,
	ElementOtherDeductions,
	ElementDiscount,
}

var elementLabels = map[Element]string{
	ElementPackingCosts:         "Packing Costs",
	ElementForeignInlandFreight: "Foreign Inland Freight",
	ElementOverseasInsurance:    "Overseas Insurance",
	ElementOverseasFreight:      "Overseas Freight",
	ElementLandingCharges:       "Landing Charges",
	ElementCommission:           "Commission",
	ElementOtherAdditions:       "Other Additions",
	ElementOtherDeductions:      "Other Deductions",
	ElementDiscount:             "Discount",
}

// Elements returns the declared element set in canonical order
func Elements() []Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	return out
}

// ParseElement parses a canonical element code, ignoring case and surrounding space
func ParseElement(s string) (Element, error) {
	e := Element(strings.ToUpper(strings.TrimSpace(s)))
	if !e.IsValid() {
		return "", NewValidationError("element", s, "oneof", "unrecognised valuation element")
	}
	return e, nil
}

// IsValid reports whether e is in the declared set
func (e Element) IsValid() bool {
	_, ok := elementLabels[e]
	return ok
}

// Label returns the human readable element name
func (e Element) Label() string {
	if l, ok := elementLabels[e]; ok {
		return l
	}
	return string(e)
}

func (e Element) String() string {
	return string(e)
}
