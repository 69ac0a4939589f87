package logging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// FileLogger implements Logger on top of zerolog, writing to a rotating file
type FileLogger struct {
	out *rotatingFile
	zl  zerolog.Logger
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	out, err := openRotatingFile(config.Path, config.MaxSize, config.MaxBackups)
	if err != nil {
		return nil, err
	}

	var zl zerolog.Logger
	if config.Format == FormatJSON {
		zl = zerolog.New(out)
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			FormatLevel: func(i interface{}) string {
				return "[" + strings.ToUpper(fmt.Sprint(i)) + "]"
			},
		})
	}

	zl = zl.Level(toZerologLevel(config.Level)).With().Timestamp().Logger()

	return &FileLogger{out: out, zl: zl}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.zl.Debug().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.zl.Info().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.zl.Warn().Fields(map[string]interface{}(fields)).Msg(msg)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.zl.Error().Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// WithFields returns a logger with additional fields sharing the same file
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		out: l.out,
		zl:  l.zl.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	return l.out.Close()
}

// rotatingFile is an append-only file that rotates once it reaches maxSize
type rotatingFile struct {
	path        string
	maxSize     int64
	maxBackups  int
	mu          sync.Mutex
	file        *os.File
	currentSize int64
}

func openRotatingFile(path string, maxSize int64, maxBackups int) (*rotatingFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &rotatingFile{
		path:        path,
		maxSize:     maxSize,
		maxBackups:  maxBackups,
		file:        file,
		currentSize: info.Size(),
	}, nil
}

// Write appends p, rotating first if the size limit has been reached
func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return 0, os.ErrClosed
	}

	if r.maxSize > 0 && r.currentSize >= r.maxSize {
		r.rotate()
		if r.file == nil {
			return 0, fmt.Errorf("failed to reopen log file after rotation")
		}
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts path.N to path.N+1, moves the live file to path.1 and
// reopens an empty one. Must be called with mu held.
func (r *rotatingFile) rotate() {
	r.file.Close()

	for i := r.maxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
	}
	os.Rename(r.path, r.path+".1")

	if r.maxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", r.path, r.maxBackups+1))
	}

	file, err := os.OpenFile(r.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		r.file = nil
		return
	}

	r.file = file
	r.currentSize = 0
}

func toZerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// levelString returns the string representation of a log level
func levelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelString returns level as string (exported version)
func LevelString(level Level) string {
	return levelString(level)
}
