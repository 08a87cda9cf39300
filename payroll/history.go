/*
history.go - Per-employee history views for one detection run

PURPOSE:
  Partitions one employee's records around a reference period. The two
  detection rules deliberately look at different slices of history:

  - Unusual income compares against a bounded trailing window: a code is
    "new" if it was not seen in the six calendar months before the
    reference period.
  - Discount drift compares against ALL prior history: the mean is taken
    over every earlier observation of the code, with no lookback cap.

  The asymmetry is intentional and must be preserved.

CONTRACT:
  All views are pure, non-mutating filters over the employee's record
  set; any of them may be empty.
*/
package payroll

// IncomeLookbackMonths is the trailing-window size used by the
// unusual-income rule.
const IncomeLookbackMonths = 6

// History is one employee's full record set framed by a reference period.
// Built fresh per detection run and never mutated, only filtered.
type History struct {
	EmployeeID EmployeeID
	Reference  Period
	records    []Record
}

// NewHistory frames an employee's records around the reference period.
func NewHistory(id EmployeeID, records []Record, reference Period) *History {
	return &History{EmployeeID: id, Reference: reference, records: records}
}

// CurrentPeriod returns all records dated exactly at the reference period.
func (h *History) CurrentPeriod() []Record {
	return h.filter(func(r Record) bool {
		return r.Period.Equal(h.Reference)
	})
}

// TrailingWindow returns all records in [reference - months, reference):
// strictly before the reference period, at most the given number of
// calendar months earlier. The lower bound is inclusive, so with a
// six-month window and reference (2024, 8) a record at (2024, 2) is in
// and (2024, 1) is out.
func (h *History) TrailingWindow(months int) []Record {
	start := h.Reference.AddMonths(-months)
	return h.filter(func(r Record) bool {
		return r.Period.AfterOrEqual(start) && r.Period.Before(h.Reference)
	})
}

// PriorHistory returns all records strictly before the reference period,
// with no lookback cap.
func (h *History) PriorHistory() []Record {
	return h.filter(func(r Record) bool {
		return r.Period.Before(h.Reference)
	})
}

func (h *History) filter(keep func(Record) bool) []Record {
	var out []Record
	for _, r := range h.records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterType narrows a record slice to one rubric type, preserving order.
func FilterType(records []Record, rt RubricType) []Record {
	var out []Record
	for _, r := range records {
		if r.RubricType == rt {
			out = append(out, r)
		}
	}
	return out
}
