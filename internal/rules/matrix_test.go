package rules_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/customs-valuator/internal/model"
	"github.com/rezonia/customs-valuator/internal/rules"
)

func TestDefaultMatrix_Complete(t *testing.T) {
	mx := rules.Default()
	require.NotNil(t, mx)

	for _, term := range model.Incoterms() {
		for _, el := range model.Elements() {
			assert.NotPanics(t, func() {
				r := mx.RuleFor(term, el)
				assert.True(t, r.IsValid(), "%s/%s has no valid rule", term, el)
			})
		}
	}
}

func TestDefaultTable_BuildsMatrix(t *testing.T) {
	_, err := rules.NewMatrix(rules.DefaultTable())
	require.NoError(t, err)
}

func TestNewMatrix_Incomplete(t *testing.T) {
	table := rules.DefaultTable()
	delete(table[model.IncotermCIF], model.ElementDiscount)
	delete(table, model.IncotermDDU)

	_, err := rules.NewMatrix(table)
	require.Error(t, err)

	var cfgErr *model.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	// One missing cell for CIF plus the whole DDU row
	assert.Len(t, cfgErr.Missing, 1+len(model.Elements()))
	assert.Contains(t, cfgErr.Missing, model.RulePair{Incoterm: model.IncotermCIF, Element: model.ElementDiscount})
	assert.Contains(t, cfgErr.Missing, model.RulePair{Incoterm: model.IncotermDDU, Element: model.ElementLandingCharges})
}

func TestNewMatrix_InvalidRule(t *testing.T) {
	table := rules.DefaultTable()
	table[model.IncotermFOB][model.ElementCommission] = model.Rule("?")

	_, err := rules.NewMatrix(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FOB/COMM")
}

func TestMustMatrix_Panics(t *testing.T) {
	assert.Panics(t, func() {
		rules.MustMatrix(rules.Table{})
	})
}

func TestNewMatrix_CopiesTable(t *testing.T) {
	table := rules.DefaultTable()
	mx, err := rules.NewMatrix(table)
	require.NoError(t, err)

	table[model.IncotermEXW][model.ElementPackingCosts] = model.RuleForbidden
	assert.Equal(t, model.RuleOptional, mx.RuleFor(model.IncotermEXW, model.ElementPackingCosts))
}

func TestNewMatrix_DropsUndeclared(t *testing.T) {
	table := rules.DefaultTable()
	table["XYZ"] = table[model.IncotermCIF]
	table[model.IncotermCIF]["ZZ"] = model.RuleMandatory

	mx, err := rules.NewMatrix(table)
	require.NoError(t, err)

	assert.False(t, mx.Supports("XYZ"))
	assert.Nil(t, mx.Row("XYZ"))
	assert.Len(t, mx.Row(model.IncotermCIF), len(model.Elements()))
	assert.NotContains(t, mx.Mandatory(model.IncotermCIF), model.Element("ZZ"))
}

func TestRuleFor_UndeclaredPanics(t *testing.T) {
	mx := rules.Default()

	assert.PanicsWithError(t,
		"rule matrix configuration defect: lookup outside declared sets [XYZ/PC]",
		func() { mx.RuleFor("XYZ", model.ElementPackingCosts) })

	assert.Panics(t, func() { mx.RuleFor(model.IncotermCIF, "PCT") })
}

func TestRuleFor_KnownCells(t *testing.T) {
	mx := rules.Default()

	tests := []struct {
		term     model.Incoterm
		element  model.Element
		expected model.Rule
	}{
		{model.IncotermEXW, model.ElementPackingCosts, model.RuleOptional},
		{model.IncotermEXW, model.ElementLandingCharges, model.RuleForbidden},
		{model.IncotermFOB, model.ElementLandingCharges, model.RuleForbidden},
		{model.IncotermFOB, model.ElementForeignInlandFreight, model.RuleForbidden},
		{model.IncotermCFR, model.ElementOverseasFreight, model.RuleMandatory},
		{model.IncotermCIF, model.ElementOverseasInsurance, model.RuleMandatory},
		{model.IncotermCIF, model.ElementOverseasFreight, model.RuleMandatory},
		{model.IncotermDDP, model.ElementLandingCharges, model.RuleMandatory},
		{model.IncotermDDP, model.ElementOverseasInsurance, model.RuleOptional},
		{model.IncotermDES, model.ElementPackingCosts, model.RuleOptional},
		{model.IncotermDEQ, model.ElementLandingCharges, model.RuleMandatory},
		{model.IncotermDDU, model.ElementForeignInlandFreight, model.RuleForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.term.String()+"/"+tt.element.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, mx.RuleFor(tt.term, tt.element))
		})
	}
}

func TestIsAllowedAndIsMandatory(t *testing.T) {
	mx := rules.Default()

	for _, term := range model.Incoterms() {
		for _, el := range model.Elements() {
			r := mx.RuleFor(term, el)
			assert.Equal(t, r != model.RuleForbidden, mx.IsAllowed(term, el), "%s/%s", term, el)
			assert.Equal(t, r == model.RuleMandatory, mx.IsMandatory(term, el), "%s/%s", term, el)
		}
	}
}

func TestCommissionAndAdjustmentsAlwaysOptional(t *testing.T) {
	mx := rules.Default()
	for _, term := range model.Incoterms() {
		for _, el := range []model.Element{
			model.ElementCommission,
			model.ElementOtherAdditions,
			model.ElementOtherDeductions,
			model.ElementDiscount,
		} {
			assert.Equal(t, model.RuleOptional, mx.RuleFor(term, el), "%s/%s", term, el)
		}
	}
}

func TestElementLists(t *testing.T) {
	mx := rules.Default()

	want := []model.Element{model.ElementOverseasInsurance, model.ElementOverseasFreight}
	if diff := cmp.Diff(want, mx.Mandatory(model.IncotermCIF)); diff != "" {
		t.Errorf("Mandatory(CIF) mismatch (-want +got):\n%s", diff)
	}

	wantForbidden := []model.Element{
		model.ElementPackingCosts,
		model.ElementForeignInlandFreight,
		model.ElementLandingCharges,
	}
	if diff := cmp.Diff(wantForbidden, mx.Forbidden(model.IncotermFOB)); diff != "" {
		t.Errorf("Forbidden(FOB) mismatch (-want +got):\n%s", diff)
	}

	assert.Len(t, mx.Allowed(model.IncotermEXW), len(model.Elements())-1)
	assert.Empty(t, mx.Mandatory(model.IncotermEXW))
}

func TestRowAndSupports(t *testing.T) {
	mx := rules.Default()

	assert.True(t, mx.Supports(model.IncotermDAT))
	assert.False(t, mx.Supports("XYZ"))
	assert.Nil(t, mx.Row("XYZ"))

	r := mx.Row(model.IncotermCIF)
	require.Len(t, r, len(model.Elements()))
	r[model.ElementOverseasInsurance] = model.RuleForbidden
	assert.Equal(t, model.RuleMandatory, mx.RuleFor(model.IncotermCIF, model.ElementOverseasInsurance))
}

func TestDisplay_MandatoryMatchesMatrix(t *testing.T) {
	mx := rules.Default()
	for _, term := range model.Incoterms() {
		hint := rules.Display(term)
		assert.ElementsMatch(t, mx.Mandatory(term), hint.Mandatory, "%s", term)
		for _, el := range hint.Fixed {
			assert.True(t, mx.IsAllowed(term, el), "%s shows forbidden field %s", term, el)
		}
	}
}

func TestDisplay_Unknown(t *testing.T) {
	hint := rules.Display("XYZ")
	assert.Empty(t, hint.Fixed)
	assert.Empty(t, hint.Mandatory)
	assert.NotNil(t, hint.Fixed)
}

func BenchmarkRuleFor(b *testing.B) {
	mx := rules.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		mx.RuleFor(model.IncotermDDP, model.ElementLandingCharges)
	}
}
