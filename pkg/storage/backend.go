package storage

import (
	"context"
	"io"
	"time"

	"github.com/spf13/afero"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Name        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Permissions uint32
}

// Backend defines the interface for filesystem operations used by the
// batch engine, the finder and the archiver.
type Backend interface {
	// ReadDir returns the regular files directly inside path, in the order
	// the directory yields them. Subdirectories are skipped.
	ReadDir(ctx context.Context, path string) ([]FileInfo, error)

	// Walk returns every file below root at any depth, in traversal order
	Walk(ctx context.Context, root string) ([]FileInfo, error)

	// Open opens a file for reading
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Move renames src to dst, copying across devices when needed
	Move(ctx context.Context, src, dst string) error

	// Delete removes a single file
	Delete(ctx context.Context, path string) error

	// Exists checks if a file or directory exists
	Exists(ctx context.Context, path string) (bool, error)

	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Fs exposes the underlying filesystem
	Fs() afero.Fs

	// Close releases any resources held by the backend
	Close() error
}
