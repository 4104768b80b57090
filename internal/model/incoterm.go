package model

import "strings"

// Incoterm is a trade term defining where cost and risk pass from seller to buyer
type Incoterm string

// Current Incoterms
const (
	IncotermEXW Incoterm = "EXW"
	IncotermFCA Incoterm = "FCA"
	IncotermFAS Incoterm = "FAS"
	IncotermFOB Incoterm = "FOB"
	IncotermCFR Incoterm = "CFR"
	IncotermCPT Incoterm = "CPT"
	IncotermCIF Incoterm = "CIF"
	IncotermCIP Incoterm = "CIP"
	IncotermDAP Incoterm = "DAP"
	IncotermDAT Incoterm = "DAT"
	IncotermDPU Incoterm = "DPU"
	IncotermDDP Incoterm = "DDP"
)

// Legacy Incoterms, still accepted on older contracts
const (
	IncotermDES Incoterm = "DES"
	IncotermDEQ Incoterm = "DEQ"
	IncotermDDU Incoterm = "DDU"
)

var incoterms = []Incoterm{
	IncotermEXW, IncotermFCA, IncotermFAS, IncotermFOB,
	IncotermCFR, IncotermCPT,
	IncotermCIF, IncotermCIP,
	IncotermDAP, IncotermDAT, IncotermDPU, IncotermDDP,
	IncotermDES, IncotermDEQ, IncotermDDU,
}

// Incoterms returns the declared Incoterm set in display order
func Incoterms() []Incoterm {
	out := make([]Incoterm, len(incoterms))
	copy(out, incoterms)
	return out
}

// ParseIncoterm parses a trade term code, ignoring case and surrounding space
func ParseIncoterm(s string) (Incoterm, error) {
	t := Incoterm(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", NewValidationError("incoterm", s, "oneof", "unsupported Incoterm")
	}
	return t, nil
}

// IsValid reports whether t is in the declared set
func (t Incoterm) IsValid() bool {
	for _, known := range incoterms {
		if t == known {
			return true
		}
	}
	return false
}

// IsLegacy reports whether t is a retired term (DES, DEQ, DDU)
func (t Incoterm) IsLegacy() bool {
	return t == IncotermDES || t == IncotermDEQ || t == IncotermDDU
}

func (t Incoterm) String() string {
	return string(t)
}
