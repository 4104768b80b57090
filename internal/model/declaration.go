package model

import "strings"

// GoodsValueCode is the external code carrying the invoice goods total
const GoodsValueCode = "ITOT"

// AllocationMethod selects the basis used to split header totals across lines
type AllocationMethod string

const (
	AllocationValue    AllocationMethod = "Value"
	AllocationWeight   AllocationMethod = "Weight"
	AllocationQuantity AllocationMethod = "Quantity"
	AllocationManual   AllocationMethod = "Manual"
)

// ParseAllocationMethod parses a method name, ignoring case.
// An empty string selects AllocationValue.
func ParseAllocationMethod(s string) (AllocationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "value":
		return AllocationValue, nil
	case "weight":
		return AllocationWeight, nil
	case "quantity", "qty":
		return AllocationQuantity, nil
	case "manual":
		return AllocationManual, nil
	default:
		return "", NewValidationError("allocationMethod", s, "oneof", "must be one of Value, Weight, Quantity, Manual")
	}
}

// DeclarationLine is one tariff line of a customs declaration
type DeclarationLine struct {
	ID       string  `json:"id" yaml:"id"`
	ITOT     float64 `json:"itot" yaml:"itot"`
	Weight   float64 `json:"weight" yaml:"weight"`
	Qty      float64 `json:"qty" yaml:"qty"`
	DutyRate float64 `json:"dutyRate" yaml:"dutyRate"`
}

// DeclarationPayload is the external declaration input.
//
// Valuation is keyed by the external element vocabulary (ITOT, FIF, PCT, COM,
// OTA, OFT, LCH, DIS, OTS). FXRate is carried for audit only.
type DeclarationPayload struct {
	Incoterm         Incoterm            `json:"incoterm" yaml:"incoterm"`
	K                *float64            `json:"k,omitempty" yaml:"k,omitempty"`
	FXRate           float64             `json:"fxRate" yaml:"fxRate"`
	Valuation        map[string]*float64 `json:"valuation" yaml:"valuation"`
	Lines            []DeclarationLine   `json:"lines,omitempty" yaml:"lines,omitempty"`
	AllocationMethod AllocationMethod    `json:"allocationMethod,omitempty" yaml:"allocationMethod,omitempty"`
	ManualSplits     map[string]float64  `json:"manualSplits,omitempty" yaml:"manualSplits,omitempty"`
}

// LineValuation is the share of the header customs value attributed to a line
type LineValuation struct {
	ID              string  `json:"id"`
	Share           float64 `json:"share"`
	CustomsValueAUD float64 `json:"customsValueAUD"`
	DutyAUD         float64 `json:"dutyAUD"`
}

// Declaration is the full valuation worksheet for a payload.
// FobCif and Lines are present only when the result is valid.
type Declaration struct {
	Incoterm Incoterm         `json:"incoterm"`
	FXRate   float64          `json:"fxRate"`
	Result   ValidationResult `json:"result"`
	FobCif   *FobCifResult    `json:"fobCif,omitempty"`
	Lines    []LineValuation  `json:"lines,omitempty"`
}
