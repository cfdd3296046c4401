package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyGraph is reported when there are no nodes to lay out. The
	// renderer still produces an empty canvas.
	ErrEmptyGraph = errors.New("graph has no nodes to display")

	// ErrNoData is matched by every NoDataWarning.
	ErrNoData = errors.New("no data for this metric on this graph")
)

// InvalidInputError describes a malformed record.
type InvalidInputError struct {
	Index  int
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("record %d: %s", e.Index, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NoDataWarning reports that no record carries a value for the requested
// metric. It is surfaced to the user and rendering continues.
type NoDataWarning struct {
	Metric Metric
}

func (w *NoDataWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Metric, ErrNoData)
}

// Is makes errors.Is(err, ErrNoData) hold.
func (w *NoDataWarning) Is(target error) bool {
	return target == ErrNoData
}
