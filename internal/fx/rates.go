// Package fx converts amounts to and from AUD using a caller supplied rate
// table. Rates are never fetched; AUD always has rate 1.
package fx

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/customs-valuator/internal/decimal"
)

// Base is the reference currency of every table
const Base = "AUD"

// FactorPlaces is the precision of an invoice conversion factor
const FactorPlaces = 8

// RateError is returned when a currency has no usable rate
type RateError struct {
	Currency string
	Message  string
}

func (e *RateError) Error() string {
	return fmt.Sprintf("exchange rate for %s: %s", e.Currency, e.Message)
}

// Table maps a currency code to units of that currency per 1 AUD
type Table map[string]float64

// NewTable builds a table from a rate map. Codes are upper-cased and AUD is
// forced to 1.
func NewTable(rates map[string]float64) Table {
	t := Table{Base: 1}
	for code, rate := range rates {
		c := normalize(code)
		if c == Base {
			continue
		}
		t[c] = rate
	}
	return t
}

// Rate returns the units of currency per 1 AUD
func (t Table) Rate(currency string) (float64, error) {
	c := normalize(currency)
	if c == Base {
		return 1, nil
	}
	rate, ok := t[c]
	if !ok {
		return 0, &RateError{Currency: c, Message: "no rate configured"}
	}
	if !decimal.IsFinite(rate) || rate <= 0 {
		return 0, &RateError{Currency: c, Message: fmt.Sprintf("rate %v is not positive", rate)}
	}
	return rate, nil
}

// ToAUD converts an amount in currency to AUD, rounded to 2 places
func (t Table) ToAUD(amount float64, currency string) (float64, error) {
	rate, err := t.Rate(currency)
	if err != nil {
		return 0, err
	}
	return decimal.ToFloat(decimal.Div(decimal.FromFloat(amount), decimal.FromFloat(rate))), nil
}

// FromAUD converts an AUD amount to currency, rounded to 2 places
func (t Table) FromAUD(amount float64, currency string) (float64, error) {
	rate, err := t.Rate(currency)
	if err != nil {
		return 0, err
	}
	return decimal.ToFloat(decimal.Mul(decimal.FromFloat(amount), decimal.FromFloat(rate))), nil
}

// Currencies lists the codes in the table, sorted
func (t Table) Currencies() []string {
	out := make([]string, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Factor is the invoice conversion factor fob / invoiceTotal, rounded to
// 8 places. It is 0 when the invoice total is not positive.
func Factor(fob, invoiceTotal float64) float64 {
	if invoiceTotal <= 0 || !decimal.IsFinite(fob) || !decimal.IsFinite(invoiceTotal) {
		return 0
	}
	return decimal.ToFloat(decimal.FromFloat(fob).DivRound(decimal.FromFloat(invoiceTotal), FactorPlaces))
}

type rateFile struct {
	Base  string             `yaml:"base"`
	Rates map[string]float64 `yaml:"rates"`
}

// LoadFile reads a rate table from a YAML file of the form
//
//	base: AUD
//	rates:
//	  USD: 0.65
//	  EUR: 0.60
func LoadFile(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML rate table
func Parse(data []byte) (Table, error) {
	var f rateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rates: %w", err)
	}
	if f.Base != "" && normalize(f.Base) != Base {
		return nil, fmt.Errorf("unsupported base currency %q, expected %s", f.Base, Base)
	}
	if len(f.Rates) == 0 {
		return nil, errors.New("rates file defines no rates")
	}

	t := NewTable(f.Rates)
	for _, c := range t.Currencies() {
		if _, err := t.Rate(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
