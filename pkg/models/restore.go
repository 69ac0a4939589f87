package models

import "fmt"

// RestoreResult is the outcome of restoring the backup archive
type RestoreResult struct {
	// Restored is false when no archive existed
	Restored bool
	// Path is the recovery directory the archive was extracted into
	Path string
	// Files is the number of archive entries written
	Files int
}

// Message returns the user-facing description of the result
func (r RestoreResult) Message() string {
	if !r.Restored {
		return "No backup available."
	}
	return fmt.Sprintf("Undo successful. Files restored to '%s' folder.", r.Path)
}
