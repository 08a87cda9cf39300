package payroll

import "github.com/shopspring/decimal"

// =============================================================================
// DISCOUNT-DRIFT DETECTOR
// =============================================================================

// DriftThreshold is the closed lower bound on relative deviation: exactly
// 5% counts as drift.
var DriftThreshold = decimal.NewFromFloat(0.05)

// DetectDiscountDrift flags current-period discount records whose value
// deviates at least DriftThreshold from the mean of that code's prior
// values for the same employee. Each current discount record is evaluated
// independently, so several codes can drift in the same period.
//
// A code with no prior discount history is skipped: there is nothing to
// compare against, and absence of history is not infinite deviation. A
// zero historical mean makes percentage deviation undefined; such records
// are reported as indeterminate notices instead of anomalies.
func DetectDiscountDrift(h *History) ([]DiscountDriftAnomaly, []IndeterminateNotice) {
	current := FilterType(h.CurrentPeriod(), RubricDiscount)
	if len(current) == 0 {
		return nil, nil
	}
	prior := FilterType(h.PriorHistory(), RubricDiscount)

	var anomalies []DiscountDriftAnomaly
	var notices []IndeterminateNotice

	for _, r := range current {
		mean, n := priorMean(prior, r.RubricCode)
		if n == 0 {
			continue
		}
		if mean.IsZero() {
			notices = append(notices, IndeterminateNotice{
				EmployeeID:   h.EmployeeID,
				RubricCode:   r.RubricCode,
				CurrentValue: r.Value,
				Reason:       "zero historical mean",
			})
			continue
		}

		deviation := r.Value.Sub(mean).Abs().Div(mean)
		if deviation.GreaterThanOrEqual(DriftThreshold) {
			anomalies = append(anomalies, DiscountDriftAnomaly{
				EmployeeID:     h.EmployeeID,
				RubricCode:     r.RubricCode,
				CurrentValue:   r.Value,
				HistoricalMean: mean,
			})
		}
	}
	return anomalies, notices
}

// priorMean computes the arithmetic mean of prior discount values for one
// code, returning the sample count alongside. Duplicate records for the
// same period participate like any other observation.
func priorMean(prior []Record, code string) (decimal.Decimal, int) {
	sum := decimal.Zero
	n := 0
	for _, r := range prior {
		if r.RubricCode != code {
			continue
		}
		sum = sum.Add(r.Value)
		n++
	}
	if n == 0 {
		return decimal.Zero, 0
	}
	return sum.Div(decimal.NewFromInt(int64(n))), n
}
