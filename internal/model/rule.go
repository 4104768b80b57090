package model

// Rule says whether an element must, may or must not appear under an Incoterm
type Rule string

const (
	RuleMandatory Rule = "M"
	RuleOptional  Rule = "O"
	RuleForbidden Rule = "X"
)

// IsValid reports whether r is one of the three rules
func (r Rule) IsValid() bool {
	return r == RuleMandatory || r == RuleOptional || r == RuleForbidden
}

// Name returns the long rule name
func (r Rule) Name() string {
	switch r {
	case RuleMandatory:
		return "Mandatory"
	case RuleOptional:
		return "Optional"
	case RuleForbidden:
		return "Forbidden"
	default:
		return "Undefined"
	}
}

// RulePair identifies one cell of the rule matrix
type RulePair struct {
	Incoterm Incoterm `json:"incoterm"`
	Element  Element  `json:"element"`
}

func (p RulePair) String() string {
	return string(p.Incoterm) + "/" + string(p.Element)
}
