package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/sdejongh/filekeeper/pkg/models"
	"golang.org/x/term"
)

// barTemplate shows counters, the bar, percentage and the last status
const barTemplate = `{{counters . }} {{bar . }} {{percent . }} {{string . "status"}}`

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// ProgressFormatter draws a progress bar while a batch runs and falls back
// to the human formatter for everything else
type ProgressFormatter struct {
	*HumanFormatter

	mu     sync.Mutex
	writer io.Writer
	bar    *pb.ProgressBar
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{HumanFormatter: NewHumanFormatter()}
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, kind models.BatchKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if writer == nil {
		writer = os.Stdout
	}
	f.writer = writer
	f.bar = nil
	return f.HumanFormatter.Start(writer, kind)
}

// Progress advances the bar, creating it on the first event once the
// total is known
func (f *ProgressFormatter) Progress(completed, total int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		f.bar = pb.New(total).
			SetWriter(f.writer).
			SetTemplateString(barTemplate).
			Start()
	}
	f.bar.SetTotal(int64(total))
	f.bar.SetCurrent(int64(completed))
	return nil
}

// Status shows message next to the bar
func (f *ProgressFormatter) Status(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.bar == nil {
		return f.HumanFormatter.Status(message)
	}
	f.bar.Set("status", message)
	return nil
}

// Complete stops the bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.BatchReport) error {
	f.stop()
	return f.HumanFormatter.Complete(report)
}

// Error stops the bar and reports the error
func (f *ProgressFormatter) Error(err error) error {
	f.stop()
	return f.HumanFormatter.Error(err)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
}
