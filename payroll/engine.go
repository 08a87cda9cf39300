/*
engine.go - Detection run orchestration

PURPOSE:
  Runs both detection rules over every employee in a record store for one
  reference period. This is the single entry point callers use; the
  individual detectors (income.go, discount.go) are exposed for tests and
  composition but a normal run goes through Detect or DetectParallel.

ORDERING GUARANTEE:
  Anomalies come back in the first-appearance order of employees in the
  input. The parallel variant computes per-employee results into indexed
  slots and merges them in group order, so both variants produce
  byte-identical output for identical input.

ERROR POLICY:
  A run fails only on structurally invalid input (bad reference period,
  malformed record). Degenerate data scoped to one record - a discount
  code with a zero historical mean - never aborts the run; it surfaces as
  an IndeterminateNotice on the Result.
*/
package payroll

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Detect runs both detection rules over all records for one reference
// period, sequentially. Pure: identical input yields identical output.
func Detect(store *Store, reference Period) (*Result, error) {
	if err := validateRun(store, reference); err != nil {
		return nil, err
	}

	result := &Result{ReferencePeriod: reference}
	for _, g := range GroupByEmployee(store.Records()) {
		merge(result, detectEmployee(g, reference))
	}
	return result, nil
}

// DetectParallel fans employees out over a bounded worker pool. Results
// are collected into per-employee slots and merged back in grouping
// order, so output ordering matches Detect exactly. workers <= 0 means
// one worker per CPU.
//
// Detection over an in-memory store has no cancellation points of its
// own; ctx is honored between employees so a caller-side timeout still
// cuts a very large run short.
func DetectParallel(ctx context.Context, store *Store, reference Period, workers int) (*Result, error) {
	if err := validateRun(store, reference); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	groups := GroupByEmployee(store.Records())
	slots := make([]*Result, len(groups))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, g := range groups {
		i, g := i, g
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			slots[i] = detectEmployee(g, reference)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{ReferencePeriod: reference}
	for _, slot := range slots {
		merge(result, slot)
	}
	return result, nil
}

// detectEmployee runs both rules over one employee's records. No shared
// state with other employees.
func detectEmployee(g EmployeeGroup, reference Period) *Result {
	h := NewHistory(g.EmployeeID, g.Records, reference)

	out := &Result{ReferencePeriod: reference}
	if a := DetectUnusualIncome(h); a != nil {
		out.UnusualIncome = append(out.UnusualIncome, *a)
	}
	drift, notices := DetectDiscountDrift(h)
	out.DiscountDrift = append(out.DiscountDrift, drift...)
	out.Indeterminate = append(out.Indeterminate, notices...)
	return out
}

func merge(dst, src *Result) {
	dst.UnusualIncome = append(dst.UnusualIncome, src.UnusualIncome...)
	dst.DiscountDrift = append(dst.DiscountDrift, src.DiscountDrift...)
	dst.Indeterminate = append(dst.Indeterminate, src.Indeterminate...)
}

func validateRun(store *Store, reference Period) error {
	if !reference.Valid() {
		return ErrInvalidPeriod
	}
	for i, r := range store.Records() {
		switch {
		case r.EmployeeID == "":
			return &RecordError{Index: i, Field: "employee_id", Detail: "is empty"}
		case r.RubricCode == "":
			return &RecordError{Index: i, Field: "rubric_code", Detail: "is empty"}
		case !r.RubricType.Valid():
			return &RecordError{Index: i, Field: "rubric_type", Detail: "is unknown: " + string(r.RubricType)}
		case !r.Period.Valid():
			return &RecordError{Index: i, Field: "period", Detail: "has month out of range"}
		}
	}
	return nil
}
