package payroll

import "fmt"

// =============================================================================
// PERIOD - One payroll calculation cycle, ordered by (year, month)
// =============================================================================

// Period identifies one (year, month) payroll cycle. Ordering is the
// lexicographic (year, month) comparison; no day-level calendar arithmetic
// is involved anywhere in detection, so plain integer month math suffices.
type Period struct {
	Year  int
	Month int // 1..12
}

// NewPeriod builds a validated period.
func NewPeriod(year, month int) (Period, error) {
	p := Period{Year: year, Month: month}
	if !p.Valid() {
		return Period{}, fmt.Errorf("%w: (%d, %d)", ErrInvalidPeriod, year, month)
	}
	return p, nil
}

// Valid reports whether the month index is in range. Year is unconstrained.
func (p Period) Valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

// Compare returns -1, 0 or 1 as p orders before, equal to, or after other.
func (p Period) Compare(other Period) int {
	switch {
	case p.Year != other.Year:
		if p.Year < other.Year {
			return -1
		}
		return 1
	case p.Month != other.Month:
		if p.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (p Period) Before(other Period) bool        { return p.Compare(other) < 0 }
func (p Period) After(other Period) bool         { return p.Compare(other) > 0 }
func (p Period) Equal(other Period) bool         { return p.Compare(other) == 0 }
func (p Period) BeforeOrEqual(other Period) bool { return p.Compare(other) <= 0 }
func (p Period) AfterOrEqual(other Period) bool  { return p.Compare(other) >= 0 }

// AddMonths shifts the period by n calendar months (n may be negative),
// borrowing or carrying years when the month index leaves [1, 12].
// This is calendar-month arithmetic, not a day-count approximation:
// (2024, 2).AddMonths(-6) == (2023, 8).
func (p Period) AddMonths(n int) Period {
	idx := p.Year*12 + (p.Month - 1) + n
	year := idx / 12
	month := idx%12 + 1
	if idx < 0 && idx%12 != 0 {
		// Go integer division truncates toward zero; normalize for
		// negative month indexes so the borrow lands in the right year.
		year = (idx - 11) / 12
		month = idx - year*12 + 1
	}
	return Period{Year: year, Month: month}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
