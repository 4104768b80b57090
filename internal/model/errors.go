package model

import (
	"fmt"
	"strings"
)

// RuleViolation is raised when an invoice breaks the Incoterm rule matrix
type RuleViolation struct {
	Incoterm Incoterm
	Element  Element
	Rule     Rule
	Message  string
}

func (e *RuleViolation) Error() string {
	return e.Message
}

// NewForbiddenElement reports a Forbidden element present on the invoice
func NewForbiddenElement(t Incoterm, el Element) *RuleViolation {
	return &RuleViolation{
		Incoterm: t,
		Element:  el,
		Rule:     RuleForbidden,
		Message:  fmt.Sprintf("%s is not allowed for Incoterm %s", el, t),
	}
}

// NewMissingElement reports a Mandatory element absent from the invoice
func NewMissingElement(t Incoterm, el Element) *RuleViolation {
	return &RuleViolation{
		Incoterm: t,
		Element:  el,
		Rule:     RuleMandatory,
		Message:  fmt.Sprintf("%s is mandatory for Incoterm %s", el, t),
	}
}

// NewUnsupportedIncoterm reports a trade term outside the declared set
func NewUnsupportedIncoterm(t Incoterm) *RuleViolation {
	return &RuleViolation{
		Incoterm: t,
		Message:  fmt.Sprintf("Incoterm %s is not supported", t),
	}
}

// NewUnknownElement reports an element code outside the declared set
func NewUnknownElement(t Incoterm, el Element) *RuleViolation {
	return &RuleViolation{
		Incoterm: t,
		Element:  el,
		Message:  fmt.Sprintf("%s is not a recognised valuation element", el),
	}
}

// TypeViolation is raised when a numeric field is missing, non-numeric or NaN
type TypeViolation struct {
	Field   string
	Message string
}

func (e *TypeViolation) Error() string {
	return e.Message
}

// NewTypeViolation creates a type violation for a numeric field
func NewTypeViolation(field string) *TypeViolation {
	return &TypeViolation{
		Field:   field,
		Message: fmt.Sprintf("%s must be a numeric value", field),
	}
}

// NewOutOfRange reports a computed figure that does not fit in a float64
func NewOutOfRange(field string) *TypeViolation {
	return &TypeViolation{
		Field:   field,
		Message: fmt.Sprintf("%s is out of range", field),
	}
}

// ConfigurationError reports a defect in the rule table itself.
// It is a programming error, never a user input error.
type ConfigurationError struct {
	Missing []RulePair
	Message string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("rule matrix configuration defect: %s", e.Message)
	}
	pairs := make([]string, len(e.Missing))
	for i, p := range e.Missing {
		pairs[i] = p.String()
	}
	return fmt.Sprintf("rule matrix configuration defect: %s [%s]", e.Message, strings.Join(pairs, ", "))
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, missing ...RulePair) *ConfigurationError {
	return &ConfigurationError{
		Missing: missing,
		Message: message,
	}
}

// ValidationError represents malformed input at an API or file boundary
type ValidationError struct {
	Field   string
	Value   interface{}
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation failed on %s: %s (value=%v, rule=%s)", e.Field, e.Message, e.Value, e.Rule)
	}
	return fmt.Sprintf("validation failed on %s: %s (rule=%s)", e.Field, e.Message, e.Rule)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, rule, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Rule:    rule,
		Message: message,
	}
}
