package models

import (
	"errors"
	"fmt"
)

// NotFoundError reports that no file matched the requested filter.
// It is raised before any mutation is attempted.
type NotFoundError struct {
	Op      string
	Path    string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// IOError reports a failed filesystem or archive operation
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError wraps err as an IOError unless it already is one
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return err
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsIOError reports whether err is an IOError
func IsIOError(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
