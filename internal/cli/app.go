package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sdejongh/filekeeper/pkg/archive"
	"github.com/sdejongh/filekeeper/pkg/batch"
	"github.com/sdejongh/filekeeper/pkg/config"
	"github.com/sdejongh/filekeeper/pkg/finder"
	"github.com/sdejongh/filekeeper/pkg/logging"
	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/sdejongh/filekeeper/pkg/output"
	"github.com/sdejongh/filekeeper/pkg/storage"
	"github.com/sdejongh/filekeeper/pkg/undo"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app holds the components shared by every command for one invocation
type app struct {
	cfg       *config.Config
	logger    logging.Logger
	backend   storage.Backend
	actions   *logging.ActionLog
	archiver  *archive.Archiver
	formatter output.Formatter
	out       io.Writer
	errOut    io.Writer
	in        io.Reader
}

// newApp loads the configuration, creates the backup and log directories
// and builds the components. Callers must Close the returned app.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlagsToConfig(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fs := afero.NewOsFs()
	if err := cfg.Paths.Ensure(fs); err != nil {
		return nil, models.NewIOError("init", cfg.Paths.BackupDir, err)
	}

	logger, err := createLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend := storage.NewLocalFs(fs)
	actions := logging.NewActionLog(fs, cfg.Paths.ActionLog)
	a := &app{
		cfg:      cfg,
		logger:   logger,
		backend:  backend,
		actions:  actions,
		archiver: archive.New(backend, cfg.Paths.ArchivePath(), actions, logger),
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
		in:       cmd.InOrStdin(),
	}
	a.formatter = selectFormatter(cfg.Output, a.out)

	return a, nil
}

// Close releases the diagnostic logger
func (a *app) Close() error {
	return a.logger.Close()
}

func (a *app) engine() *batch.Engine {
	return batch.NewEngine(a.backend, a.archiver, a.actions, a.logger)
}

func (a *app) finder() *finder.Finder {
	return finder.New(a.backend, a.logger)
}

func (a *app) restorer() *undo.Restorer {
	return undo.New(a.archiver, a.cfg.Paths.RestoreDir, a.actions, a.logger)
}

// start announces a batch unless output is quiet
func (a *app) start(kind models.BatchKind) {
	if !a.cfg.Output.Quiet {
		a.formatter.Start(a.out, kind)
	}
}

// callbacks returns the formatter callbacks, or nil ones in quiet mode
func (a *app) callbacks() (models.ProgressFunc, models.StatusFunc) {
	if a.cfg.Output.Quiet {
		return nil, nil
	}
	return output.Callbacks(a.formatter)
}

// confirm asks a yes/no question on the command's input. Anything other
// than y or yes declines. The question goes to stderr so stdout only
// carries formatter output.
func (a *app) confirm(question string) (bool, error) {
	fmt.Fprintf(a.errOut, "%s [y/N] ", question)

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// finishBatch renders the outcome of a batch and writes the optional report.
// A nil report means the batch stopped before touching anything.
func (a *app) finishBatch(ctx context.Context, report *models.BatchReport, runErr error, flags reportFlags) error {
	if report == nil {
		return runErr
	}

	if !a.cfg.Output.Quiet {
		a.formatter.Complete(report)
	}

	if flags.Path != "" {
		if err := output.WriteBatchReport(report, flags.Path, flags.Format); err != nil {
			a.logger.Error(ctx, "Failed to write batch report", err, logging.Fields{"path": flags.Path})
			if runErr == nil {
				return err
			}
		}
	}

	if runErr != nil {
		reported := !a.cfg.Output.Quiet && a.formatter.Error(runErr) == nil
		return &exitError{code: report.Status.ExitCode(), err: runErr, reported: reported}
	}
	return nil
}

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	return config.Load(globalFlags.ConfigFile)
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) {
	if globalFlags.Output != "" {
		cfg.Output.Format = globalFlags.Output
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Verbose mode logs debug events when a log file is set
	if globalFlags.Verbose {
		cfg.Output.Progress = true
		cfg.Logging.Level = "debug"
	}

	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}
}

// selectFormatter picks the formatter for the configured output. The
// progress bar is only used on a terminal.
func selectFormatter(cfg config.OutputConfig, w io.Writer) output.Formatter {
	switch {
	case cfg.Format == "json":
		return output.NewJSONFormatter()
	case cfg.Progress && output.IsTerminal(w):
		return output.NewProgressFormatter()
	default:
		return output.NewHumanFormatter()
	}
}

// createLogger creates a logger based on configuration
func createLogger(cfg config.LoggingConfig) (logging.Logger, error) {
	// If no log file specified, return null logger
	if cfg.File == "" {
		return logging.NewNullLogger(), nil
	}

	var format logging.Format
	switch cfg.Format {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	return logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       cfg.File,
		Format:     format,
		Level:      logging.ParseLevel(cfg.Level),
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
	})
}
