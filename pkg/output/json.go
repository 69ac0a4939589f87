package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/sdejongh/filekeeper/pkg/archive"
	"github.com/sdejongh/filekeeper/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and scripting
type JSONFormatter struct {
	writer io.Writer
	kind   models.BatchKind
	now    func() time.Time
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONProgressData represents a progress event
type JSONProgressData struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// JSONReportData represents the final batch report
type JSONReportData struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Source     string   `json:"source"`
	Dest       string   `json:"dest,omitempty"`
	Extension  string   `json:"extension"`
	Status     string   `json:"status"`
	Total      int      `json:"total"`
	Completed  int      `json:"completed"`
	Processed  []string `json:"processed"`
	FailedPath string   `json:"failed_path,omitempty"`
	Error      string   `json:"error,omitempty"`
	Duration   string   `json:"duration"`
	DurationMs int64    `json:"duration_ms"`
}

// JSONRestoreData represents an undo outcome
type JSONRestoreData struct {
	Restored bool   `json:"restored"`
	Path     string `json:"path,omitempty"`
	Files    int    `json:"files"`
	Message  string `json:"message"`
}

// JSONEntryData represents one archive entry
type JSONEntryData struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{now: time.Now}
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	if f.writer == nil {
		f.writer = os.Stdout
	}
	return json.NewEncoder(f.writer).Encode(JSONEvent{
		Timestamp: f.now().UTC(),
		Type:      eventType,
		Data:      data,
	})
}

// Start initializes the formatter
func (f *JSONFormatter) Start(writer io.Writer, kind models.BatchKind) error {
	f.writer = writer
	f.kind = kind
	return f.emit("start", map[string]string{"kind": string(kind)})
}

// Progress emits a progress event
func (f *JSONFormatter) Progress(completed, total int) error {
	return f.emit("progress", JSONProgressData{Completed: completed, Total: total})
}

// Status emits a status event
func (f *JSONFormatter) Status(message string) error {
	return f.emit("status", map[string]string{"message": message})
}

// Complete emits the batch report
func (f *JSONFormatter) Complete(report *models.BatchReport) error {
	return f.emit("complete", NewJSONReport(report))
}

// Error emits an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", map[string]string{"error": err.Error()})
}

// Listing emits the matched paths; empty is not used in JSON output
func (f *JSONFormatter) Listing(writer io.Writer, paths []string, empty string) error {
	f.writer = writer
	if paths == nil {
		paths = []string{}
	}
	return f.emit("listing", map[string]any{"count": len(paths), "paths": paths})
}

// Restore emits the undo outcome
func (f *JSONFormatter) Restore(writer io.Writer, result models.RestoreResult) error {
	f.writer = writer
	return f.emit("restore", JSONRestoreData{
		Restored: result.Restored,
		Path:     result.Path,
		Files:    result.Files,
		Message:  result.Message(),
	})
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}

// NewJSONReport converts a batch report to its JSON form
func NewJSONReport(report *models.BatchReport) JSONReportData {
	processed := report.Processed
	if processed == nil {
		processed = []string{}
	}
	return JSONReportData{
		ID:         report.OperationID,
		Kind:       string(report.Kind),
		Source:     report.SourcePath,
		Dest:       report.DestPath,
		Extension:  report.Extension.String(),
		Status:     string(report.Status),
		Total:      report.Total,
		Completed:  report.Completed(),
		Processed:  processed,
		FailedPath: report.FailedPath,
		Error:      report.Error,
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
	}
}

func newJSONEntries(entries []archive.Entry) []JSONEntryData {
	out := make([]JSONEntryData, 0, len(entries))
	for _, e := range entries {
		out = append(out, JSONEntryData{
			Name:     e.Name,
			Size:     e.Size,
			Modified: e.Modified.Format(time.RFC3339),
		})
	}
	return out
}
