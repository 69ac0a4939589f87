package models

import (
	"time"
)

// BatchKind identifies which mutation a batch applies to each file
type BatchKind string

const (
	// BatchMove moves matching files to a destination directory
	BatchMove BatchKind = "move"
	// BatchDelete removes matching files from the source directory
	BatchDelete BatchKind = "delete"
)

// ProgressFunc receives the number of completed files out of the batch total
type ProgressFunc func(completed, total int)

// StatusFunc receives a human-readable description of the last action
type StatusFunc func(message string)

// BatchOperation describes a single batch invocation
type BatchOperation struct {
	ID         string
	Kind       BatchKind
	SourcePath string
	DestPath   string // move only
	Extension  ExtensionFilter
	CreatedAt  time.Time
}

// Validate checks if the operation is complete enough to run
func (op *BatchOperation) Validate() error {
	if op.SourcePath == "" {
		return &ValidationError{Field: "SourcePath", Message: "source path is required"}
	}
	switch op.Kind {
	case BatchMove:
		if op.DestPath == "" {
			return &ValidationError{Field: "DestPath", Message: "destination path is required"}
		}
	case BatchDelete:
	default:
		return &ValidationError{Field: "Kind", Message: "unknown batch kind: " + string(op.Kind)}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
