package processor

import (
	"fmt"

	"github.com/rezonia/customs-valuator/internal/decimal"
	"github.com/rezonia/customs-valuator/internal/model"
)

// Distribute splits a total proportionally.
//
// For AllocationManual with a non-nil manual slice the manual shares are
// returned as given; the caller owns their length and sum. Otherwise each
// total is divided by the sum of all totals, or every share is zero when
// the sum is zero.
func Distribute(totals []float64, method model.AllocationMethod, manual []float64) []float64 {
	if method == model.AllocationManual && manual != nil {
		return append([]float64{}, manual...)
	}

	shares := make([]float64, len(totals))
	sum := 0.0
	for _, t := range totals {
		sum += t
	}
	if sum == 0 {
		return shares
	}
	for i, t := range totals {
		shares[i] = t / sum
	}
	return shares
}

// basis returns the per-line figures used by an allocation method
func basis(lines []model.DeclarationLine, method model.AllocationMethod) []float64 {
	out := make([]float64, len(lines))
	for i, l := range lines {
		switch method {
		case model.AllocationWeight:
			out[i] = l.Weight
		case model.AllocationQuantity:
			out[i] = l.Qty
		default:
			out[i] = l.ITOT
		}
	}
	return out
}

// basisField names the line figure read by an allocation method
func basisField(method model.AllocationMethod) string {
	switch method {
	case model.AllocationWeight:
		return "weight"
	case model.AllocationQuantity:
		return "qty"
	default:
		return "itot"
	}
}

func lineField(i int, l model.DeclarationLine, name string) string {
	if l.ID == "" {
		return fmt.Sprintf("lines[%d].%s", i, name)
	}
	return fmt.Sprintf("lines[%s].%s", l.ID, name)
}

// checkLines reports every non-finite figure an allocation would read
func checkLines(lines []model.DeclarationLine, method model.AllocationMethod, splits map[string]float64) []string {
	var errs []string
	totals := basis(lines, method)
	for i, l := range lines {
		if !decimal.IsFinite(totals[i]) {
			errs = append(errs, model.NewTypeViolation(lineField(i, l, basisField(method))).Error())
		}
		if method == model.AllocationManual && !decimal.IsFinite(splits[l.ID]) {
			errs = append(errs, model.NewTypeViolation(lineField(i, l, "manualSplit")).Error())
		}
		if !decimal.IsFinite(l.DutyRate) {
			errs = append(errs, model.NewTypeViolation(lineField(i, l, "dutyRate")).Error())
		}
	}
	return errs
}

// allocate spreads the header customs value across lines and derives the
// duty of each line. Lines must have passed checkLines; a figure that still
// leaves float64 range is reported instead of returned.
func allocate(lines []model.DeclarationLine, method model.AllocationMethod, splits map[string]float64, customsValue float64) ([]model.LineValuation, []string) {
	if len(lines) == 0 {
		return nil, nil
	}

	var manual []float64
	if method == model.AllocationManual {
		manual = make([]float64, len(lines))
		for i, l := range lines {
			manual[i] = splits[l.ID]
		}
	}

	totals := basis(lines, method)
	if method != model.AllocationManual {
		sum := 0.0
		for _, t := range totals {
			sum += t
		}
		if !decimal.IsFinite(sum) {
			return nil, []string{model.NewOutOfRange("lines." + basisField(method) + " total").Error()}
		}
	}

	shares := Distribute(totals, method, manual)
	cv := decimal.FromFloat(customsValue)
	hundred := decimal.FromFloat(100)

	var errs []string
	out := make([]model.LineValuation, len(lines))
	for i, l := range lines {
		lineCV := decimal.Mul(cv, decimal.FromFloat(shares[i]))
		duty := decimal.Div(lineCV.Mul(decimal.FromFloat(l.DutyRate)), hundred)
		out[i] = model.LineValuation{
			ID:              l.ID,
			Share:           shares[i],
			CustomsValueAUD: decimal.ToFloat(lineCV),
			DutyAUD:         decimal.ToFloat(duty),
		}
		if !decimal.IsFinite(out[i].CustomsValueAUD) {
			errs = append(errs, model.NewOutOfRange(lineField(i, l, "customsValueAUD")).Error())
		}
		if !decimal.IsFinite(out[i].DutyAUD) {
			errs = append(errs, model.NewOutOfRange(lineField(i, l, "dutyAUD")).Error())
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}
