package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sdejongh/filekeeper/pkg/models"
)

// styles groups the lipgloss styles bound to one writer
type styles struct {
	counter lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	heading lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		counter: r.NewStyle().Foreground(lipgloss.Color("6")),
		ok:      r.NewStyle().Foreground(lipgloss.Color("2")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		heading: r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HumanFormatter formats output in human-readable lines
type HumanFormatter struct {
	writer    io.Writer
	styles    styles
	kind      models.BatchKind
	completed int
	total     int
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

func (f *HumanFormatter) bind(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	if f.writer != w {
		f.writer = w
		f.styles = newStyles(w)
	}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(writer io.Writer, kind models.BatchKind) error {
	f.bind(writer)
	f.kind = kind
	f.completed = 0
	f.total = 0
	return nil
}

// Progress records the counters shown with the next status line
func (f *HumanFormatter) Progress(completed, total int) error {
	f.completed = completed
	f.total = total
	return nil
}

// Status prints one line per handled file
func (f *HumanFormatter) Status(message string) error {
	if f.writer == nil {
		return nil
	}
	counter := f.styles.counter.Render(fmt.Sprintf("[%d/%d]", f.completed, f.total))
	_, err := fmt.Fprintf(f.writer, "%s %s\n", counter, message)
	return err
}

// Complete prints the batch summary
func (f *HumanFormatter) Complete(report *models.BatchReport) error {
	f.bind(f.writer)
	w := f.writer
	s := f.styles

	title := fmt.Sprintf("%s completed in %s", capitalize(string(report.Kind)), report.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "\n%s\n", s.heading.Render(title))
	fmt.Fprintf(w, "  Source:     %s\n", report.SourcePath)
	if report.Kind == models.BatchMove {
		fmt.Fprintf(w, "  Dest:       %s\n", report.DestPath)
	}
	fmt.Fprintf(w, "  Extension:  %s\n", report.Extension)
	fmt.Fprintf(w, "  Files:      %d/%d\n", report.Completed(), report.Total)
	fmt.Fprintf(w, "  Batch:      %s\n", s.muted.Render(report.OperationID))

	status := string(report.Status)
	if report.Status == models.StatusSuccess {
		status = s.ok.Render(status)
	} else {
		status = s.fail.Render(status)
	}
	fmt.Fprintf(w, "\nStatus: %s\n", status)

	if report.FailedPath != "" {
		fmt.Fprintf(w, "Stopped at: %s\n", report.FailedPath)
	}

	return nil
}

// Error reports an error
func (f *HumanFormatter) Error(err error) error {
	if f.writer == nil {
		return nil
	}
	_, werr := fmt.Fprintf(f.writer, "%s %v\n", f.styles.fail.Render("Error:"), err)
	return werr
}

// Listing prints one path per line
func (f *HumanFormatter) Listing(writer io.Writer, paths []string, empty string) error {
	f.bind(writer)
	if len(paths) == 0 {
		_, err := fmt.Fprintln(f.writer, f.styles.muted.Render(empty))
		return err
	}
	for _, p := range paths {
		if _, err := fmt.Fprintln(f.writer, p); err != nil {
			return err
		}
	}
	return nil
}

// Restore prints the undo outcome
func (f *HumanFormatter) Restore(writer io.Writer, result models.RestoreResult) error {
	f.bind(writer)
	msg := result.Message()
	if result.Restored {
		msg = f.styles.ok.Render(msg)
	}
	_, err := fmt.Fprintln(f.writer, msg)
	return err
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func capitalize(s string) string {
	if s == "" {
		return "Batch"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formatBytes formats bytes in human-readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
