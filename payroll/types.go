/*
Package payroll implements anomaly detection over monthly payroll line items.

PURPOSE:
  This package contains the domain types and detection algorithms for
  flagging suspicious payroll movements: income codes that appear for an
  employee without recent precedent, and discount values that drift away
  from that employee's own historical mean.

KEY CONCEPTS IN THIS FILE (types.go):
  - Record: One observed rubric line for one employee in one period
  - RubricType: BASE / INCOME / DISCOUNT classification of a rubric
  - Anomaly shapes: UnusualIncomeAnomaly, DiscountDriftAnomaly
  - IndeterminateNotice: "could not evaluate" signal, distinct from anomalies

DESIGN PRINCIPLES:
  1. Immutability: records and anomalies are values, never mutated after creation
  2. Precision: uses decimal.Decimal to avoid floating-point errors in means
  3. Type Safety: strong typing for employee identifiers
  4. Determinism: every detection run is a pure function of its inputs

SEE ALSO:
  - period.go: (year, month) ordering and window arithmetic
  - history.go: per-employee history views
  - engine.go: run orchestration
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// EmployeeID is the stable employee identifier (the "matricula" in the
// source dataset). Opaque: detection only groups and compares by it.
type EmployeeID string

// =============================================================================
// RUBRIC TYPES
// =============================================================================

// RubricType classifies a payroll line item.
type RubricType string

const (
	RubricBase     RubricType = "BASE"
	RubricIncome   RubricType = "INCOME"
	RubricDiscount RubricType = "DISCOUNT"
)

// Valid reports whether the rubric type is one of the known classifications.
func (rt RubricType) Valid() bool {
	switch rt {
	case RubricBase, RubricIncome, RubricDiscount:
		return true
	}
	return false
}

// =============================================================================
// RECORD - One rubric line for one employee in one period
// =============================================================================

// Record is a single observed payroll line item. For well-formed input
// there is at most one record per (employee, code, type, period); duplicates
// are an upstream data-quality concern and participate in detection like
// any other record.
type Record struct {
	EmployeeID EmployeeID
	RubricCode string
	RubricType RubricType
	Value      decimal.Decimal
	Period     Period
}

// =============================================================================
// ANOMALY SHAPES
// =============================================================================

// UnusualIncomeAnomaly flags income codes present in the reference period
// but absent from the employee's trailing six-month history. One anomaly
// carries the full set of new codes, sorted lexicographically.
type UnusualIncomeAnomaly struct {
	EmployeeID     EmployeeID
	NewIncomeCodes []string
}

// DiscountDriftAnomaly flags a discount value that deviates at least 5%
// from the mean of that code's prior values for the same employee.
type DiscountDriftAnomaly struct {
	EmployeeID     EmployeeID
	RubricCode     string
	CurrentValue   decimal.Decimal
	HistoricalMean decimal.Decimal
}

// Deviation returns the relative deviation |current - mean| / mean that
// triggered the anomaly.
func (a DiscountDriftAnomaly) Deviation() decimal.Decimal {
	return a.CurrentValue.Sub(a.HistoricalMean).Abs().Div(a.HistoricalMean)
}

// IndeterminateNotice reports a record the discount detector could not
// evaluate. It travels on a separate channel from anomalies so callers can
// distinguish "no anomaly" from "could not evaluate".
type IndeterminateNotice struct {
	EmployeeID   EmployeeID
	RubricCode   string
	CurrentValue decimal.Decimal
	Reason       string
}

func (n IndeterminateNotice) String() string {
	return fmt.Sprintf("indeterminate: employee %s rubric %s (%s)",
		n.EmployeeID, n.RubricCode, n.Reason)
}

// =============================================================================
// RESULT - Output of one detection run
// =============================================================================

// Result aggregates everything a detection run produced. Anomaly ordering
// follows the first-appearance order of employees in the input; within one
// employee, discount anomalies follow the order of the current-period
// records that produced them.
type Result struct {
	ReferencePeriod Period
	UnusualIncome   []UnusualIncomeAnomaly
	DiscountDrift   []DiscountDriftAnomaly
	Indeterminate   []IndeterminateNotice
}

// Empty reports whether the run produced no anomalies of either kind.
// Indeterminate notices do not count: they are evaluation failures, not
// findings.
func (r *Result) Empty() bool {
	return len(r.UnusualIncome) == 0 && len(r.DiscountDrift) == 0
}
