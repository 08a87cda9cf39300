package payroll

import "sort"

// =============================================================================
// UNUSUAL-INCOME DETECTOR
// =============================================================================

// DetectUnusualIncome flags income codes present in the employee's current
// period but absent from the trailing six-month window. Returns at most one
// anomaly carrying the full set of new codes, sorted; nil when every
// current income code was already seen in the window.
//
// An employee with no current-period income yields nothing. An employee
// with no history at all gets every current income code flagged as new.
func DetectUnusualIncome(h *History) *UnusualIncomeAnomaly {
	current := FilterType(h.CurrentPeriod(), RubricIncome)
	if len(current) == 0 {
		return nil
	}

	known := make(map[string]bool)
	for _, r := range FilterType(h.TrailingWindow(IncomeLookbackMonths), RubricIncome) {
		known[r.RubricCode] = true
	}

	seen := make(map[string]bool)
	var newCodes []string
	for _, r := range current {
		if known[r.RubricCode] || seen[r.RubricCode] {
			continue
		}
		seen[r.RubricCode] = true
		newCodes = append(newCodes, r.RubricCode)
	}
	if len(newCodes) == 0 {
		return nil
	}

	sort.Strings(newCodes)
	return &UnusualIncomeAnomaly{EmployeeID: h.EmployeeID, NewIncomeCodes: newCodes}
}
