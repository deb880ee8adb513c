package core

// budget.go implements the error budget that bounds validation cost.
//
// The budget owns the per-row error lists for one validation pass. Its
// counter tracks how many distinct rows have at least one error; both
// validation phases stop scanning the moment the counter reaches capacity,
// so reporting is "first N offending rows", not "all offending rows".

// DefaultFirstErrors is the default error-budget capacity.
const DefaultFirstErrors = 100

// ErrorBudget accumulates row errors up to a fixed capacity of offending
// rows. One budget value flows through both the schema/uniqueness phase and
// the persisted-conflict phase, so the second phase respects whatever
// capacity the first left over.
type ErrorBudget struct {
	capacity int
	counter  int
	perRow   [][]RowError
}

// NewErrorBudget creates a budget sized for a batch of rows data rows.
func NewErrorBudget(capacity, rows int) *ErrorBudget {
	if capacity <= 0 {
		capacity = DefaultFirstErrors
	}
	return &ErrorBudget{
		capacity: capacity,
		perRow:   make([][]RowError, rows),
	}
}

// Append records errors against a row without charging the budget.
// Charging is a separate, per-phase decision: each phase charges a row at
// most once, no matter how many field errors it appended.
func (b *ErrorBudget) Append(index int, errs ...RowError) {
	b.perRow[index] = append(b.perRow[index], errs...)
}

// Charge counts one more offending row against the capacity.
func (b *ErrorBudget) Charge() {
	b.counter++
}

// Exhausted reports whether the capacity has been reached. Scanning must
// stop as soon as this returns true.
func (b *ErrorBudget) Exhausted() bool {
	return b.counter >= b.capacity
}

// Counter returns the number of rows charged so far.
func (b *ErrorBudget) Counter() int {
	return b.counter
}

// RowErrors returns the errors recorded for a row.
func (b *ErrorBudget) RowErrors(index int) []RowError {
	return b.perRow[index]
}

// Report returns a *ValidationFailedError enumerating every offending row
// in ascending row order, or nil if no row has errors. Capping already
// happened during scanning; Report never truncates.
func (b *ErrorBudget) Report() error {
	var rows []RowReport
	for i, errs := range b.perRow {
		if len(errs) == 0 {
			continue
		}
		rows = append(rows, RowReport{Line: lineFor(i), Errors: errs})
	}
	if len(rows) == 0 {
		return nil
	}
	return &ValidationFailedError{Rows: rows}
}
