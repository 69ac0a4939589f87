package models

import (
	"time"
)

// BatchReport represents the results of a batch operation.
// On failure it records how far the batch got before aborting.
type BatchReport struct {
	// Operation details
	OperationID string
	Kind        BatchKind
	SourcePath  string
	DestPath    string
	Extension   ExtensionFilter

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Total is the number of files matched before mutation started
	Total int

	// Processed lists source paths that were backed up and mutated
	Processed []string

	// FailedPath is the file being handled when the batch aborted
	FailedPath string

	// Error is the message of the aborting error, if any
	Error string

	// Overall status
	Status BatchStatus
}

// BatchStatus represents the overall result
type BatchStatus string

const (
	// StatusSuccess indicates every matched file was handled
	StatusSuccess BatchStatus = "success"
	// StatusPartial indicates the batch aborted after mutating some files
	StatusPartial BatchStatus = "partial"
	// StatusFailed indicates the batch aborted before mutating any file
	StatusFailed BatchStatus = "failed"
)

// ExitCode returns the appropriate exit code for the batch status
func (s BatchStatus) ExitCode() int {
	switch s {
	case StatusSuccess:
		return 0
	case StatusPartial:
		return 3
	default:
		return 2
	}
}

// Completed returns the number of files handled so far
func (r *BatchReport) Completed() int {
	return len(r.Processed)
}
