package server

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/rules"
)

// Amount is a leniently decoded money figure. Anything other than a JSON
// number decodes to NaN so validation reports it as a type violation
// instead of rejecting the whole request.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	var f float64
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.HasPrefix(data, []byte(`"`)) || json.Unmarshal(data, &f) != nil {
		*a = Amount(math.NaN())
		return nil
	}
	*a = Amount(f)
	return nil
}

// InvoiceRequest is the body of the invoice endpoints
type InvoiceRequest struct {
	Incoterm      string            `json:"incoterm" binding:"required"`
	GoodsValueAUD *Amount           `json:"goodsValueAUD"`
	Elements      map[string]Amount `json:"elements"`
}

// Invoice converts the request to a model invoice. Codes are upper-cased
// but not checked; unknown codes surface as violations.
func (r InvoiceRequest) Invoice() model.Invoice {
	goods := math.NaN()
	if r.GoodsValueAUD != nil {
		goods = float64(*r.GoodsValueAUD)
	}

	elements := make(map[model.Element]float64, len(r.Elements))
	for code, amount := range r.Elements {
		elements[model.Element(strings.ToUpper(strings.TrimSpace(code)))] = float64(amount)
	}

	return model.Invoice{
		Incoterm:      model.Incoterm(strings.ToUpper(strings.TrimSpace(r.Incoterm))),
		GoodsValueAUD: goods,
		Elements:      elements,
	}
}

// DeclarationRequest is the body of the declarations endpoint
type DeclarationRequest struct {
	Incoterm         string                  `json:"incoterm" binding:"required"`
	K                *float64                `json:"k" binding:"omitempty,gte=0,lt=1"`
	FXRate           float64                 `json:"fxRate" binding:"gte=0"`
	Valuation        map[string]*float64     `json:"valuation" binding:"required"`
	Lines            []model.DeclarationLine `json:"lines"`
	AllocationMethod string                  `json:"allocationMethod" binding:"omitempty,allocation"`
	ManualSplits     map[string]float64      `json:"manualSplits"`
}

// Payload converts the request to a declaration payload
func (r DeclarationRequest) Payload() model.DeclarationPayload {
	method, _ := model.ParseAllocationMethod(r.AllocationMethod)
	valuation := make(map[string]*float64, len(r.Valuation))
	for code, v := range r.Valuation {
		valuation[strings.ToUpper(strings.TrimSpace(code))] = v
	}
	return model.DeclarationPayload{
		Incoterm:         model.Incoterm(strings.ToUpper(strings.TrimSpace(r.Incoterm))),
		K:                r.K,
		FXRate:           r.FXRate,
		Valuation:        valuation,
		Lines:            r.Lines,
		AllocationMethod: method,
		ManualSplits:     r.ManualSplits,
	}
}

// DistributeRequest is the body of the distribute endpoint
type DistributeRequest struct {
	Totals []float64 `json:"totals" binding:"required"`
	Method string    `json:"method" binding:"omitempty,allocation"`
	Manual []float64 `json:"manual"`
}

// DistributeResponse holds the fractional share of each total
type DistributeResponse struct {
	Shares []float64 `json:"shares"`
}

// Conversion directions
const (
	DirectionToAUD   = "to_aud"
	DirectionFromAUD = "from_aud"
)

// ConvertRequest is the body of the convert endpoint
type ConvertRequest struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency" binding:"required,len=3,alpha"`
	Direction string  `json:"direction" binding:"omitempty,oneof=to_aud from_aud"`
}

// ConvertResponse is the result of a currency conversion
type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Direction string  `json:"direction"`
	Rate      float64 `json:"rate"`
	Result    float64 `json:"result"`
}

// CustomsValueResponse is the response of the customs value endpoint
type CustomsValueResponse struct {
	CustomsValueAUD float64 `json:"customsValueAUD"`
}

// IncotermURI binds the incoterm path parameter
type IncotermURI struct {
	Code string `uri:"code" binding:"required,incoterm"`
}

// IncotermInfo describes one trade term and its rules
type IncotermInfo struct {
	Code   model.Incoterm               `json:"code"`
	Group  string                       `json:"group"`
	Legacy bool                         `json:"legacy"`
	Rules  map[model.Element]model.Rule `json:"rules"`
}

// IncotermDetail adds presentation hints to IncotermInfo
type IncotermDetail struct {
	IncotermInfo
	Mandatory []model.Element   `json:"mandatory"`
	Forbidden []model.Element   `json:"forbidden"`
	Display   rules.DisplayHint `json:"display"`
}

// FieldError describes one rejected request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details string       `json:"details,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}
