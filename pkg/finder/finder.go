// Package finder provides read-only recursive listings of a directory tree.
package finder

import (
	"context"
	"strings"

	"github.com/sdejongh/filekeeper/pkg/logging"
	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/sdejongh/filekeeper/pkg/storage"
)

// Finder lists files below a source directory at any depth
type Finder struct {
	backend storage.Backend
	logger  logging.Logger
}

// New creates a finder over backend
func New(backend storage.Backend, logger logging.Logger) *Finder {
	return &Finder{
		backend: backend,
		logger:  logging.OrNull(logger).WithFields(logging.Fields{"component": "finder"}),
	}
}

// ListAll returns every file below source
func (f *Finder) ListAll(ctx context.Context, source string) ([]string, error) {
	return f.collect(ctx, "list", source, func(string) bool { return true })
}

// ListByExtension returns files below source whose name ends with ext
func (f *Finder) ListByExtension(ctx context.Context, source string, ext models.ExtensionFilter) ([]string, error) {
	return f.collect(ctx, "list", source, ext.Matches)
}

// SearchByName returns files below source whose name contains pattern,
// ignoring case on both sides
func (f *Finder) SearchByName(ctx context.Context, source, pattern string) ([]string, error) {
	needle := strings.ToLower(pattern)
	return f.collect(ctx, "search", source, func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	})
}

// collect walks source and keeps the paths whose base name passes keep.
// A source that is a file rather than a directory yields nothing.
func (f *Finder) collect(ctx context.Context, op, source string, keep func(name string) bool) ([]string, error) {
	info, err := f.backend.Stat(ctx, source)
	if err != nil {
		f.logger.Error(ctx, "traversal failed", err, logging.Fields{"source": source})
		return nil, models.NewIOError(op, source, err)
	}
	if !info.IsDir {
		f.logger.Debug(ctx, "source is not a directory", logging.Fields{"source": source})
		return []string{}, nil
	}

	files, err := f.backend.Walk(ctx, source)
	if err != nil {
		f.logger.Error(ctx, "traversal failed", err, logging.Fields{"source": source})
		return nil, models.NewIOError(op, source, err)
	}

	paths := []string{}
	for _, fi := range files {
		if keep(fi.Name) {
			paths = append(paths, fi.Path)
		}
	}

	f.logger.Debug(ctx, "traversal finished", logging.Fields{
		"op":      op,
		"source":  source,
		"scanned": len(files),
		"matched": len(paths),
	})
	return paths, nil
}
