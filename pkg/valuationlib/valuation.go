// Package valuationlib provides a public API for customs valuation of
// commercial invoices under the Australian ICS rules.
//
// It exposes the core types for validating an invoice against the Incoterm
// rule matrix, computing its customs value, and declaring payloads with
// line-level allocation.
//
// Example usage:
//
//	proc := valuationlib.NewDefaultProcessor()
//	result := proc.Validate(valuationlib.Invoice{
//	    Incoterm:      valuationlib.IncotermCIF,
//	    GoodsValueAUD: 1000,
//	    Elements: map[valuationlib.Element]float64{
//	        valuationlib.ElementOverseasFreight:   50,
//	        valuationlib.ElementOverseasInsurance: 20,
//	    },
//	})
//	if result.Valid {
//	    fmt.Println(*result.CustomsValueAUD)
//	}
package valuationlib

import "github.com/rezonia/customs-valuator/internal/model"

// Re-export core types for public API
type (
	Invoice            = model.Invoice
	Incoterm           = model.Incoterm
	Element            = model.Element
	Rule               = model.Rule
	ValidationResult   = model.ValidationResult
	FobCifResult       = model.FobCifResult
	DeclarationPayload = model.DeclarationPayload
	DeclarationLine    = model.DeclarationLine
	Declaration        = model.Declaration
	LineValuation      = model.LineValuation
	AllocationMethod   = model.AllocationMethod
)

// Re-export Incoterms
const (
	IncotermEXW = model.IncotermEXW
	IncotermFCA = model.IncotermFCA
	IncotermFAS = model.IncotermFAS
	IncotermFOB = model.IncotermFOB
	IncotermCFR = model.IncotermCFR
	IncotermCPT = model.IncotermCPT
	IncotermCIF = model.IncotermCIF
	IncotermCIP = model.IncotermCIP
	IncotermDAP = model.IncotermDAP
	IncotermDAT = model.IncotermDAT
	IncotermDPU = model.IncotermDPU
	IncotermDDP = model.IncotermDDP
	IncotermDES = model.IncotermDES
	IncotermDEQ = model.IncotermDEQ
	IncotermDDU = model.IncotermDDU
)

// Re-export valuation elements
const (
	ElementPackingCosts         = model.ElementPackingCosts
	ElementForeignInlandFreight = model.ElementForeignInlandFreight
	ElementOverseasInsurance    = model.ElementOverseasInsurance
	ElementOverseasFreight      = model.ElementOverseasFreight
	ElementLandingCharges       = model.ElementLandingCharges
	ElementCommission           = model.ElementCommission
	ElementOtherAdditions       = model.ElementOtherAdditions
	ElementOtherDeductions      = model.ElementOtherDeductions
	ElementDiscount             = model.ElementDiscount
)

// Re-export rules
const (
	RuleMandatory = model.RuleMandatory
	RuleOptional  = model.RuleOptional
	RuleForbidden = model.RuleForbidden
)

// Re-export allocation methods
const (
	AllocationValue    = model.AllocationValue
	AllocationWeight   = model.AllocationWeight
	AllocationQuantity = model.AllocationQuantity
	AllocationManual   = model.AllocationManual
)

// Re-export error types
type (
	RuleViolation      = model.RuleViolation
	TypeViolation      = model.TypeViolation
	ConfigurationError = model.ConfigurationError
	ValidationError    = model.ValidationError
)
