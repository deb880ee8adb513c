package core

// errors.go defines the error kinds raised by the pipeline.
//
// Row-level problems are accumulated into the ErrorBudget and surfaced as a
// single *ValidationFailedError. Fatal problems (bad headers, empty input,
// missing role) abort immediately without touching any row.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the parsed CSV contains no data rows.
var ErrEmptyInput = errors.New("empty CSV")

// ErrRoleNotFound is returned when the Candidate role cannot be resolved.
// It is fatal and aborts the request before any write.
var ErrRoleNotFound = errors.New("Candidate role does not exist")

// ErrGroupNotFound is returned by group lookups when the group does not
// exist or is not visible under the caller's client.
var ErrGroupNotFound = errors.New("user group not found")

// ErrDuplicateUser is the coarse insert-time conflict error. It is raised
// only when the bulk insert hits a unique constraint, which can happen even
// after pre-insert checks passed (they are advisory, not a reservation).
var ErrDuplicateUser = errors.New("User with that userName already exist")

// InvalidHeaderError reports a CSV column that is not in the allowed field
// set. The full allowed set is carried for diagnostics.
type InvalidHeaderError struct {
	Header  string
	Allowed []string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid CSV header %q (allowed: %s)", e.Header, strings.Join(e.Allowed, ", "))
}

// RowError is a single field-level validation error for one CSV row.
// Line is 2-based: line = row index + 2 (one for the header row, one
// because rows are 1-indexed in the source file).
type RowError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
	Line    int    `json:"line"`
}

// RowReport groups the errors of one offending row for the final payload.
type RowReport struct {
	Line   int        `json:"line"`
	Errors []RowError `json:"errors"`
}

// ValidationFailedError aggregates every reported row error. It is raised
// at most once per request, after both validation phases finished or the
// budget was exhausted.
type ValidationFailedError struct {
	Rows []RowReport
}

func (e *ValidationFailedError) Error() string {
	total := 0
	for _, r := range e.Rows {
		total += len(r.Errors)
	}
	return fmt.Sprintf("CSV validation failed: %d error(s) across %d row(s)", total, len(e.Rows))
}

// lineFor converts a 0-based row index to its line number in the file.
func lineFor(index int) int {
	return index + 2
}
