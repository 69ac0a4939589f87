package output

import (
	"io"

	"github.com/sdejongh/filekeeper/pkg/models"
)

// Formatter renders what the core reports back to the caller.
// Implementations include human-readable, progress bar and JSON formatters.
type Formatter interface {
	// Start prepares the formatter for a batch of the given kind
	Start(writer io.Writer, kind models.BatchKind) error

	// Progress reports that completed out of total files are done
	Progress(completed, total int) error

	// Status reports the action taken on the last file
	Status(message string) error

	// Complete finalizes output and displays the batch summary
	Complete(report *models.BatchReport) error

	// Error reports an error that ended the command
	Error(err error) error

	// Listing prints a finder result, or empty when there are no paths
	Listing(writer io.Writer, paths []string, empty string) error

	// Restore prints the outcome of an undo
	Restore(writer io.Writer, result models.RestoreResult) error

	// Name returns the formatter name
	Name() string
}

// Callbacks adapts f to the callback contract of the batch engine.
// Rendering errors are dropped so they cannot abort a batch.
func Callbacks(f Formatter) (models.ProgressFunc, models.StatusFunc) {
	onProgress := func(completed, total int) {
		_ = f.Progress(completed, total)
	}
	onStatus := func(message string) {
		_ = f.Status(message)
	}
	return onProgress, onStatus
}
