package config

import (
	"fmt"
	"path/filepath"

	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/spf13/afero"
)

// Config represents the application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig holds the locations of the backup archive, recovery
// directory and action log. Relative paths resolve against the working
// directory.
type PathsConfig struct {
	BackupDir   string `yaml:"backup_dir"`
	ArchiveName string `yaml:"archive_name"`
	RestoreDir  string `yaml:"restore_dir"`
	ActionLog   string `yaml:"action_log"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Format     string `yaml:"format"` // "json" or "text"
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // empty disables diagnostic logging
	MaxSize    int64  `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			BackupDir:   "backup",
			ArchiveName: "backup.zip",
			RestoreDir:  filepath.Join("backup", "undo_restore"),
			ActionLog:   filepath.Join("logs", "file_manager.log"),
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format:     "text",
			Level:      "info",
			File:       "",
			MaxSize:    10 * 1024 * 1024,
			MaxBackups: 5,
		},
	}
}

// ArchivePath returns the full path of the backup archive
func (p PathsConfig) ArchivePath() string {
	return filepath.Join(p.BackupDir, p.ArchiveName)
}

// Ensure creates the backup directory and the action log directory.
// It is safe to call repeatedly.
func (p PathsConfig) Ensure(fs afero.Fs) error {
	for _, dir := range []string{p.BackupDir, filepath.Dir(p.ActionLog)} {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	required := map[string]string{
		"paths.backup_dir":   c.Paths.BackupDir,
		"paths.archive_name": c.Paths.ArchiveName,
		"paths.restore_dir":  c.Paths.RestoreDir,
		"paths.action_log":   c.Paths.ActionLog,
	}
	for field, value := range required {
		if value == "" {
			return &models.ValidationError{Field: field, Message: "must not be empty"}
		}
	}

	if filepath.Base(c.Paths.ArchiveName) != c.Paths.ArchiveName {
		return &models.ValidationError{
			Field:   "paths.archive_name",
			Message: "must be a file name, not a path",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 {
		return &models.ValidationError{
			Field:   "logging.max_size",
			Message: "rotation limits must not be negative",
		}
	}

	return nil
}
