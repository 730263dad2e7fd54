package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested person does not exist in the
// store. Callers match it with errors.Is.
var ErrNotFound = errors.New("person not found")

// DataSourceError wraps a failed store query. The engine never retries
// internally; the error is surfaced to the caller who owns retry policy.
type DataSourceError struct {
	Op  string // the query that failed, e.g. "list people"
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("entity store: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
