// Package batch runs one bounded slice of the dataset per invocation and
// arranges for the next invocation until every row has been rate-shopped.
package batch

import (
	"errors"
	"fmt"
)

// DefaultBatchSize keeps batchSize × candidates × carriers sequential rate
// calls inside the host's per-invocation time budget.
const DefaultBatchSize = 10

// ErrEmptyWindow is returned when the start row is past the last row.
var ErrEmptyWindow = errors.New("no rows left to process")

// Window is the inclusive row range processed by one invocation.
type Window struct {
	Start int
	End   int
}

// NewWindow computes [start, min(start+size-1, last)].
func NewWindow(start, last, size int) (Window, error) {
	if size < 1 {
		return Window{}, fmt.Errorf("batch size must be positive, got %d", size)
	}
	if start > last {
		return Window{}, fmt.Errorf("%w: start %d, last %d", ErrEmptyWindow, start, last)
	}
	return Window{Start: start, End: min(start+size-1, last)}, nil
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	return w.End - w.Start + 1
}

// HasMore reports whether rows remain after the window.
func (w Window) HasMore(last int) bool {
	return w.End < last
}
