// Package undo restores the backup archive into the recovery directory.
//
// Restoration is cumulative: every file ever backed up is extracted, not
// just the files of the most recent batch.
package undo

import (
	"context"

	"github.com/sdejongh/filekeeper/pkg/archive"
	"github.com/sdejongh/filekeeper/pkg/logging"
	"github.com/sdejongh/filekeeper/pkg/models"
)

// Restorer extracts the archive into a fixed recovery directory
type Restorer struct {
	archiver   *archive.Archiver
	restoreDir string
	actions    *logging.ActionLog
	logger     logging.Logger
}

// New creates a restorer writing into restoreDir. actions may be nil.
func New(archiver *archive.Archiver, restoreDir string, actions *logging.ActionLog, logger logging.Logger) *Restorer {
	return &Restorer{
		archiver:   archiver,
		restoreDir: restoreDir,
		actions:    actions,
		logger:     logging.OrNull(logger).WithFields(logging.Fields{"component": "undo"}),
	}
}

// RestoreLast extracts the whole archive into the recovery directory,
// overwriting files already there. Without an archive it does nothing.
func (r *Restorer) RestoreLast(ctx context.Context) (models.RestoreResult, error) {
	exists, err := r.archiver.Exists(ctx)
	if err != nil {
		return models.RestoreResult{}, err
	}
	if !exists {
		r.logger.Info(ctx, "no backup available", logging.Fields{"archive": r.archiver.Path()})
		return models.RestoreResult{}, nil
	}

	n, err := r.archiver.Extract(ctx, r.restoreDir)
	if err != nil {
		r.logger.Error(ctx, "restore failed", err, logging.Fields{"archive": r.archiver.Path()})
		return models.RestoreResult{}, err
	}

	if r.actions != nil {
		if err := r.actions.Record(models.ActionRestore, r.restoreDir); err != nil {
			return models.RestoreResult{}, err
		}
	}

	r.logger.Info(ctx, "archive restored", logging.Fields{
		"archive": r.archiver.Path(),
		"dir":     r.restoreDir,
		"files":   n,
	})

	return models.RestoreResult{Restored: true, Path: r.restoreDir, Files: n}, nil
}
