package rules

import "github.com/rezonia/customs-valuator/internal/model"

// DisplayHint tells a presentation layer which element fields to show by
// default for an Incoterm and which to mark as required. It does not
// affect validation.
type DisplayHint struct {
	Fixed     []model.Element `json:"fixed"`
	Mandatory []model.Element `json:"mandatory"`
}

var (
	oft = model.ElementOverseasFreight
	ons = model.ElementOverseasInsurance
	lch = model.ElementLandingCharges
	fif = model.ElementForeignInlandFreight
	ota = model.ElementOtherAdditions
)

var displayHints = map[model.Incoterm]DisplayHint{
	model.IncotermEXW: {Fixed: []model.Element{fif, oft, ons, ota}},
	model.IncotermFCA: {Fixed: []model.Element{oft, ons}},
	model.IncotermFAS: {Fixed: []model.Element{oft, ons}},
	model.IncotermFOB: {Fixed: []model.Element{oft, ons}},
	model.IncotermCFR: {Fixed: []model.Element{oft}, Mandatory: []model.Element{oft}},
	model.IncotermCPT: {Fixed: []model.Element{oft}, Mandatory: []model.Element{oft}},
	model.IncotermCIF: {Fixed: []model.Element{oft, ons}, Mandatory: []model.Element{oft, ons}},
	model.IncotermCIP: {Fixed: []model.Element{oft, ons}, Mandatory: []model.Element{oft, ons}},
	model.IncotermDAP: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{oft, lch}},
	model.IncotermDAT: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{oft, lch}},
	model.IncotermDPU: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{oft, lch}},
	model.IncotermDDP: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{oft, lch}},
	model.IncotermDES: {Fixed: []model.Element{oft, ons}},
	model.IncotermDEQ: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{lch}},
	model.IncotermDDU: {Fixed: []model.Element{oft, ons, lch}, Mandatory: []model.Element{lch}},
}

// Display returns the default field layout for an Incoterm.
// Unknown terms get an empty hint.
func Display(t model.Incoterm) DisplayHint {
	h, ok := displayHints[t]
	if !ok {
		return DisplayHint{Fixed: []model.Element{}, Mandatory: []model.Element{}}
	}
	out := DisplayHint{
		Fixed:     append([]model.Element{}, h.Fixed...),
		Mandatory: append([]model.Element{}, h.Mandatory...),
	}
	return out
}
