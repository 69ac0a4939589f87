package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/afero"
)

// actionTimeFormat renders timestamps as [DD-Mon HH:MM:SS]
const actionTimeFormat = "[02-Jan 15:04:05]"

// ActionLog is the append-only record of file actions. Each entry opens the
// file, appends one line and closes it again; no handle outlives a call.
type ActionLog struct {
	fs   afero.Fs
	path string
	now  func() time.Time
}

// NewActionLog creates an action log writing to path on fs
func NewActionLog(fs afero.Fs, path string) *ActionLog {
	return &ActionLog{fs: fs, path: path, now: time.Now}
}

// Path returns the log file location
func (a *ActionLog) Path() string {
	return a.path
}

// Record appends "[DD-Mon HH:MM:SS] <action>: <path>"
func (a *ActionLog) Record(action models.Action, path string) error {
	if err := a.fs.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return models.NewIOError("log", a.path, err)
	}

	file, err := a.fs.OpenFile(a.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return models.NewIOError("log", a.path, err)
	}

	line := FormatAction(a.now(), action, path)
	if _, err := file.Write([]byte(line)); err != nil {
		file.Close()
		return models.NewIOError("log", a.path, err)
	}

	if err := file.Close(); err != nil {
		return models.NewIOError("log", a.path, err)
	}
	return nil
}

// FormatAction renders a single action log line including the newline
func FormatAction(ts time.Time, action models.Action, path string) string {
	return fmt.Sprintf("%s %s: %s\n", ts.Format(actionTimeFormat), action, path)
}
