/*
Package report renders detection results for human and machine consumers.

The reporter consumes only the anomaly shapes and the ordering guarantee
of the payroll package; it never reaches back into detection. When the
loader retained employee metadata, names are shown next to matriculas in
the text rendering and carried in the JSON one.
*/
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-auditor/loader"
	"github.com/warp/payroll-auditor/payroll"
)

// Reporter renders payroll.Result values. Employees is optional metadata
// keyed by matricula; unknown employees render with their identifier only.
type Reporter struct {
	Employees map[payroll.EmployeeID]loader.Employee
}

// New creates a reporter enriched with loader metadata. A nil map is fine.
func New(employees map[payroll.EmployeeID]loader.Employee) *Reporter {
	return &Reporter{Employees: employees}
}

func (r *Reporter) label(id payroll.EmployeeID) string {
	if emp, ok := r.Employees[id]; ok && emp.Name != "" {
		return fmt.Sprintf("%s (%s)", emp.Name, id)
	}
	return string(id)
}

// =============================================================================
// TEXT RENDERING
// =============================================================================

// WriteText renders a plain-text summary. Absence of anomalies is the
// normal, silent case: an empty result prints a single line saying so.
func (r *Reporter) WriteText(w io.Writer, result *payroll.Result) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Payroll anomaly report for %s\n", result.ReferencePeriod)

	if result.Empty() && len(result.Indeterminate) == 0 {
		b.WriteString("No anomalies found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if len(result.UnusualIncome) > 0 {
		fmt.Fprintf(&b, "\nUnusual income codes (%d):\n", len(result.UnusualIncome))
		for _, a := range result.UnusualIncome {
			fmt.Fprintf(&b, "  %s: %s\n", r.label(a.EmployeeID), strings.Join(a.NewIncomeCodes, ", "))
		}
	}

	if len(result.DiscountDrift) > 0 {
		fmt.Fprintf(&b, "\nDiscount drift (%d):\n", len(result.DiscountDrift))
		for _, a := range result.DiscountDrift {
			fmt.Fprintf(&b, "  %s: %s is %s, historical mean %s (deviation %s%%)\n",
				r.label(a.EmployeeID), a.RubricCode,
				a.CurrentValue.StringFixed(2), a.HistoricalMean.StringFixed(2),
				a.Deviation().Mul(hundred).StringFixed(2))
		}
	}

	if len(result.Indeterminate) > 0 {
		fmt.Fprintf(&b, "\nCould not evaluate (%d):\n", len(result.Indeterminate))
		for _, n := range result.Indeterminate {
			fmt.Fprintf(&b, "  %s: %s - %s\n", r.label(n.EmployeeID), n.RubricCode, n.Reason)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// =============================================================================
// JSON RENDERING
// =============================================================================

type jsonPeriod struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type jsonUnusualIncome struct {
	EmployeeID     string   `json:"employee_id"`
	EmployeeName   string   `json:"employee_name,omitempty"`
	NewIncomeCodes []string `json:"new_income_codes"`
}

type jsonDiscountDrift struct {
	EmployeeID     string `json:"employee_id"`
	EmployeeName   string `json:"employee_name,omitempty"`
	RubricCode     string `json:"rubric_code"`
	CurrentValue   string `json:"current_value"`
	HistoricalMean string `json:"historical_mean"`
	Deviation      string `json:"deviation"`
}

type jsonIndeterminate struct {
	EmployeeID   string `json:"employee_id"`
	RubricCode   string `json:"rubric_code"`
	CurrentValue string `json:"current_value"`
	Reason       string `json:"reason"`
}

type jsonReport struct {
	ReferencePeriod jsonPeriod          `json:"reference_period"`
	UnusualIncome   []jsonUnusualIncome `json:"unusual_income"`
	DiscountDrift   []jsonDiscountDrift `json:"discount_drift"`
	Indeterminate   []jsonIndeterminate `json:"indeterminate"`
}

// WriteJSON renders the result as indented JSON. Decimal fields are
// serialized as strings to keep exact values intact across consumers.
func (r *Reporter) WriteJSON(w io.Writer, result *payroll.Result) error {
	out := jsonReport{
		ReferencePeriod: jsonPeriod{Year: result.ReferencePeriod.Year, Month: result.ReferencePeriod.Month},
		UnusualIncome:   []jsonUnusualIncome{},
		DiscountDrift:   []jsonDiscountDrift{},
		Indeterminate:   []jsonIndeterminate{},
	}

	for _, a := range result.UnusualIncome {
		out.UnusualIncome = append(out.UnusualIncome, jsonUnusualIncome{
			EmployeeID:     string(a.EmployeeID),
			EmployeeName:   r.Employees[a.EmployeeID].Name,
			NewIncomeCodes: a.NewIncomeCodes,
		})
	}
	for _, a := range result.DiscountDrift {
		out.DiscountDrift = append(out.DiscountDrift, jsonDiscountDrift{
			EmployeeID:     string(a.EmployeeID),
			EmployeeName:   r.Employees[a.EmployeeID].Name,
			RubricCode:     a.RubricCode,
			CurrentValue:   a.CurrentValue.String(),
			HistoricalMean: a.HistoricalMean.String(),
			Deviation:      a.Deviation().String(),
		})
	}
	for _, n := range result.Indeterminate {
		out.Indeterminate = append(out.Indeterminate, jsonIndeterminate{
			EmployeeID:   string(n.EmployeeID),
			RubricCode:   n.RubricCode,
			CurrentValue: n.CurrentValue.String(),
			Reason:       n.Reason,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

var hundred = decimal.NewFromInt(100)
