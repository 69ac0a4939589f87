package logging

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewFileLogger(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    1024 * 1024,
		MaxBackups: 3,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	if logger == nil {
		t.Error("NewFileLogger() returned nil")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestNewFileLogger_CreatesDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "nested", "dir", "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	dir := filepath.Dir(logPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Log directory was not created")
	}
}

func TestFileLogger_LogLevels(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()

	logger.Debug(ctx, "debug message", nil)
	logger.Info(ctx, "info message", nil)
	logger.Warn(ctx, "warn message", nil)
	logger.Error(ctx, "error message", nil, nil)

	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	if strings.Contains(logContent, "debug message") {
		t.Error("Debug message should be filtered at INFO level")
	}

	if !strings.Contains(logContent, "info message") {
		t.Error("Info message should be present")
	}
	if !strings.Contains(logContent, "warn message") {
		t.Error("Warn message should be present")
	}
	if !strings.Contains(logContent, "error message") {
		t.Error("Error message should be present")
	}
}

func TestFileLogger_DebugLevel(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  DebugLevel, // Log everything
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	logger.Debug(ctx, "debug message", nil)
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "debug message") {
		t.Error("Debug message should be present at DEBUG level")
	}
}

func TestFileLogger_TextFormat(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", Fields{"key": "value", "count": 42})
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	logContent := string(content)

	if !strings.Contains(logContent, "[INFO]") {
		t.Error("Log should contain [INFO] level marker")
	}
	if !strings.Contains(logContent, "test message") {
		t.Error("Log should contain the message")
	}
	if !strings.Contains(logContent, "key=value") {
		t.Error("Log should contain the field")
	}
}

func TestFileLogger_JSONFormat(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatJSON,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	logger.Info(ctx, "test message", Fields{"key": "value", "count": 42})
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want 'test message'", entry["message"])
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want 'value'", entry["key"])
	}
	if entry["time"] == nil {
		t.Error("time should be present")
	}
}

func TestFileLogger_ErrorWithErr(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatJSON,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()
	testErr := &testError{msg: "something went wrong"}
	logger.Error(ctx, "operation failed", testErr, Fields{"operation": "test"})
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	if entry["error"] != "something went wrong" {
		t.Errorf("error = %v, want 'something went wrong'", entry["error"])
	}
}

type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}

func TestFileLogger_WithFields(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatJSON,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()

	loggerWithFields := logger.WithFields(Fields{"component": "batch"})
	loggerWithFields.Info(ctx, "test", Fields{"action": "move"})
	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal(content, &entry); err != nil {
		t.Fatalf("Failed to parse JSON log: %v", err)
	}

	// Should have both base and additional fields
	if entry["component"] != "batch" {
		t.Errorf("component = %v, want 'batch'", entry["component"])
	}
	if entry["action"] != "move" {
		t.Errorf("action = %v, want 'move'", entry["action"])
	}
}

func TestFileLogger_Rotation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:       logPath,
		Format:     FormatText,
		Level:      InfoLevel,
		MaxSize:    100, // Very small for testing
		MaxBackups: 2,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()

	for i := 0; i < 20; i++ {
		logger.Info(ctx, "This is a test message that is long enough to trigger rotation eventually", nil)
	}
	logger.Close()

	backup1 := logPath + ".1"
	if _, err := os.Stat(backup1); os.IsNotExist(err) {
		t.Error("Backup file .1 should exist after rotation")
	}

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Main log file should still exist")
	}
}

func TestNullLogger(t *testing.T) {
	logger := NewNullLogger()
	ctx := context.Background()

	logger.Debug(ctx, "debug", nil)
	logger.Info(ctx, "info", nil)
	logger.Warn(ctx, "warn", nil)
	logger.Error(ctx, "error", nil, nil)

	// WithFields should return a logger
	newLogger := logger.WithFields(Fields{"key": "value"})
	if newLogger == nil {
		t.Error("WithFields should return a logger")
	}

	// Close should not error
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"WARN", WarnLevel},
		{"warning", WarnLevel},
		{"WARNING", WarnLevel},
		{"Info", InfoLevel},
		{"error", ErrorLevel},
		{"ERROR", ErrorLevel},
		{"unknown", InfoLevel}, // Default
		{"", InfoLevel},        // Default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := LevelString(tt.level)
			if result != tt.expected {
				t.Errorf("LevelString(%v) = %q, want %q", tt.level, result, tt.expected)
			}
		})
	}
}

func TestFileLogger_ConcurrentWrites(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-logging-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	logPath := filepath.Join(tempDir, "test.log")
	config := FileLoggerConfig{
		Path:   logPath,
		Format: FormatText,
		Level:  InfoLevel,
	}

	logger, err := NewFileLogger(config)
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}

	ctx := context.Background()

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			for j := 0; j < 100; j++ {
				logger.Info(ctx, "concurrent message", Fields{"goroutine": id, "iteration": j})
			}
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("Timeout waiting for concurrent writes")
		}
	}

	logger.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 1000 {
		t.Errorf("Expected 1000 log lines, got %d", len(lines))
	}
}

func TestFileLogger_WriteAfterClose(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "closed.log")
	logger, err := NewFileLogger(FileLoggerConfig{Path: logPath, Format: FormatText, Level: InfoLevel})
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	logger.Close()

	// Must not panic
	logger.Info(context.Background(), "late message", nil)

	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestOrNull(t *testing.T) {
	if _, ok := OrNull(nil).(*NullLogger); !ok {
		t.Error("OrNull(nil) should return a NullLogger")
	}
	n := NewNullLogger()
	if OrNull(n) != Logger(n) {
		t.Error("OrNull should return a non-nil logger unchanged")
	}
}
