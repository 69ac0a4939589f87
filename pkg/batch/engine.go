// Package batch moves or deletes every file directly inside a directory
// whose name ends with a given extension, backing each file up first.
package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sdejongh/filekeeper/pkg/archive"
	"github.com/sdejongh/filekeeper/pkg/logging"
	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/sdejongh/filekeeper/pkg/storage"
)

// Engine runs batch operations. It is not safe for concurrent use: the
// archive and action log it writes to assume a single writer.
type Engine struct {
	backend  storage.Backend
	archiver *archive.Archiver
	actions  *logging.ActionLog
	logger   logging.Logger
}

// NewEngine creates a new batch engine
func NewEngine(
	backend storage.Backend,
	archiver *archive.Archiver,
	actions *logging.ActionLog,
	logger logging.Logger,
) *Engine {
	return &Engine{
		backend:  backend,
		archiver: archiver,
		actions:  actions,
		logger:   logging.OrNull(logger).WithFields(logging.Fields{"component": "batch"}),
	}
}

// MoveByExtension moves the files directly inside source that end with ext
// into dest, creating dest when needed.
func (e *Engine) MoveByExtension(
	ctx context.Context,
	source, dest string,
	ext models.ExtensionFilter,
	onProgress models.ProgressFunc,
	onStatus models.StatusFunc,
) (*models.BatchReport, error) {
	op := &models.BatchOperation{
		Kind:       models.BatchMove,
		SourcePath: source,
		DestPath:   dest,
		Extension:  ext,
	}
	return e.run(ctx, op, onProgress, onStatus)
}

// DeleteByExtension deletes the files directly inside source that end with ext
func (e *Engine) DeleteByExtension(
	ctx context.Context,
	source string,
	ext models.ExtensionFilter,
	onProgress models.ProgressFunc,
	onStatus models.StatusFunc,
) (*models.BatchReport, error) {
	op := &models.BatchOperation{
		Kind:       models.BatchDelete,
		SourcePath: source,
		Extension:  ext,
	}
	return e.run(ctx, op, onProgress, onStatus)
}

// run applies op to every matching file in directory order. The first
// failure aborts the batch; files already handled stay handled.
func (e *Engine) run(
	ctx context.Context,
	op *models.BatchOperation,
	onProgress models.ProgressFunc,
	onStatus models.StatusFunc,
) (*models.BatchReport, error) {
	op.ID = uuid.New().String()
	op.CreatedAt = time.Now()
	if err := op.Validate(); err != nil {
		return nil, err
	}

	if onProgress == nil {
		onProgress = func(int, int) {}
	}
	if onStatus == nil {
		onStatus = func(string) {}
	}

	logger := e.logger.WithFields(logging.Fields{
		"batch_id":  op.ID,
		"kind":      string(op.Kind),
		"source":    op.SourcePath,
		"extension": op.Extension.String(),
	})

	matched, err := e.match(ctx, op.SourcePath, op.Extension)
	if err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		logger.Info(ctx, "no matching files", nil)
		return nil, &models.NotFoundError{
			Op:      string(op.Kind),
			Path:    op.SourcePath,
			Message: fmt.Sprintf("No matching files to %s.", op.Kind),
		}
	}

	if op.Kind == models.BatchMove {
		if err := e.backend.MkdirAll(ctx, op.DestPath); err != nil {
			return nil, models.NewIOError("move", op.DestPath, err)
		}
	}

	report := &models.BatchReport{
		OperationID: op.ID,
		Kind:        op.Kind,
		SourcePath:  op.SourcePath,
		DestPath:    op.DestPath,
		Extension:   op.Extension,
		StartTime:   time.Now(),
		Total:       len(matched),
		Processed:   make([]string, 0, len(matched)),
	}

	logger.Info(ctx, "batch started", logging.Fields{"total": report.Total})

	for i, file := range matched {
		if err := e.apply(ctx, op, file); err != nil {
			e.finish(report, file.Path, err)
			logger.Error(ctx, "batch aborted", err, logging.Fields{
				"path":      file.Path,
				"completed": report.Completed(),
				"total":     report.Total,
			})
			return report, err
		}

		report.Processed = append(report.Processed, file.Path)
		onProgress(i+1, report.Total)
		onStatus(statusMessage(op.Kind, file.Name))

		if err := e.actions.Record(actionFor(op.Kind), e.loggedPath(op, file)); err != nil {
			e.finish(report, file.Path, err)
			logger.Error(ctx, "failed to record action", err, logging.Fields{"path": file.Path})
			return report, err
		}
	}

	e.finish(report, "", nil)
	logger.Info(ctx, "batch completed", logging.Fields{
		"total":       report.Total,
		"duration_ms": report.Duration.Milliseconds(),
	})

	return report, nil
}

// match lists the direct children of source whose names end with ext
func (e *Engine) match(ctx context.Context, source string, ext models.ExtensionFilter) ([]storage.FileInfo, error) {
	files, err := e.backend.ReadDir(ctx, source)
	if err != nil {
		return nil, models.NewIOError("list", source, err)
	}

	matched := make([]storage.FileInfo, 0, len(files))
	for _, f := range files {
		if ext.Matches(f.Name) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// apply backs file up and then performs the batch mutation on it
func (e *Engine) apply(ctx context.Context, op *models.BatchOperation, file storage.FileInfo) error {
	if err := e.archiver.Backup(ctx, file.Path); err != nil {
		return err
	}

	switch op.Kind {
	case models.BatchMove:
		target := filepath.Join(op.DestPath, file.Name)
		if err := e.backend.Move(ctx, file.Path, target); err != nil {
			return models.NewIOError("move", file.Path, err)
		}
	case models.BatchDelete:
		if err := e.backend.Delete(ctx, file.Path); err != nil {
			return models.NewIOError("delete", file.Path, err)
		}
	}
	return nil
}

func (e *Engine) finish(report *models.BatchReport, failedPath string, err error) {
	report.EndTime = time.Now()
	report.Duration = report.EndTime.Sub(report.StartTime)

	switch {
	case err == nil:
		report.Status = models.StatusSuccess
	case report.Completed() > 0:
		report.Status = models.StatusPartial
	default:
		report.Status = models.StatusFailed
	}

	if err != nil {
		report.FailedPath = failedPath
		report.Error = err.Error()
	}
}

// loggedPath is the destination for moves and the source for deletes
func (e *Engine) loggedPath(op *models.BatchOperation, file storage.FileInfo) string {
	if op.Kind == models.BatchMove {
		return filepath.Join(op.DestPath, file.Name)
	}
	return file.Path
}

func actionFor(kind models.BatchKind) models.Action {
	if kind == models.BatchMove {
		return models.ActionMove
	}
	return models.ActionDelete
}

func statusMessage(kind models.BatchKind, name string) string {
	return fmt.Sprintf("%s: %s", actionFor(kind), name)
}
