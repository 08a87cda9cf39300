package payroll

// =============================================================================
// RECORD STORE - In-memory, read-only for the duration of a run
// =============================================================================

// Store is an ordered in-memory collection of payroll records. It is
// produced by a loader collaborator and consumed read-only by the
// detectors; nothing in this package mutates it after construction.
type Store struct {
	records []Record
}

// NewStore wraps records without copying. Callers hand ownership over and
// must not mutate the slice afterwards.
func NewStore(records []Record) *Store {
	return &Store{records: records}
}

// Records returns the underlying record slice in input order.
func (s *Store) Records() []Record {
	return s.records
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// =============================================================================
// GROUPING - Order-preserving partition by employee
// =============================================================================

// EmployeeGroup is one employee's full record set, in input order.
type EmployeeGroup struct {
	EmployeeID EmployeeID
	Records    []Record
}

// GroupByEmployee partitions records into per-employee groups. Group order
// is the first-appearance order of each employee in the input, which pins
// output ordering across runs on identical input.
func GroupByEmployee(records []Record) []EmployeeGroup {
	index := make(map[EmployeeID]int)
	var groups []EmployeeGroup

	for _, r := range records {
		i, seen := index[r.EmployeeID]
		if !seen {
			i = len(groups)
			index[r.EmployeeID] = i
			groups = append(groups, EmployeeGroup{EmployeeID: r.EmployeeID})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
