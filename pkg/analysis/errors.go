package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotBuilt indicates an analysis operation was invoked against a nil
// graph handle, i.e. before any successful build. This is a contract
// violation by the caller, not a recoverable condition.
var ErrNotBuilt = errors.New("graph not built")

// NotFoundError indicates a requested person is absent from the current
// graph snapshot.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("person %q not found in graph", e.ID)
}

// CycleError reports a reporting-line cycle encountered while building the
// org chart. The upstream data source cannot guarantee acyclicity, so the
// tree builder detects and refuses cycles instead of recursing forever.
type CycleError struct {
	Path []string // the ids along the cycle, in traversal order
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("reporting cycle detected: %s", strings.Join(e.Path, " -> "))
}
