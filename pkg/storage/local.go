package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

// Local is a filesystem-based storage backend
type Local struct {
	fs afero.Fs
}

// NewLocal creates a backend on the operating system filesystem
func NewLocal() *Local {
	return &Local{fs: afero.NewOsFs()}
}

// NewLocalFs creates a backend on an arbitrary afero filesystem
func NewLocalFs(fs afero.Fs) *Local {
	return &Local{fs: fs}
}

// ReadDir returns the regular files directly inside path
func (l *Local) ReadDir(ctx context.Context, path string) ([]FileInfo, error) {
	dir, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}
	defer dir.Close()

	// Readdir keeps the directory's own enumeration order
	infos, err := dir.Readdir(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	files := make([]FileInfo, 0, len(infos))
	for _, info := range infos {
		p := filepath.Join(path, info.Name())
		if l.isDir(p, info) {
			continue
		}
		files = append(files, toFileInfo(p, info))
	}

	return files, nil
}

// Walk returns every file below root at any depth
func (l *Local) Walk(ctx context.Context, root string) ([]FileInfo, error) {
	files := []FileInfo{}

	err := afero.Walk(l.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// symlinked directories are listed by neither branch: afero.Walk
		// does not descend into them
		if l.isDir(p, info) {
			return nil
		}

		files = append(files, toFileInfo(p, info))
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// isDir reports whether info describes a directory, following symlinks.
// A dangling symlink counts as a file.
func (l *Local) isDir(path string, info os.FileInfo) bool {
	if info.IsDir() {
		return true
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := l.fs.Stat(path)
	return err == nil && target.IsDir()
}

// Open opens a file for reading
func (l *Local) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := l.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return file, nil
}

// Move renames src to dst. When the rename crosses a device boundary the
// file is copied and the source removed; that fallback is not atomic.
func (l *Local) Move(ctx context.Context, src, dst string) error {
	err := l.fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return fmt.Errorf("failed to move file: %w", err)
	}

	if err := l.copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy across devices: %w", err)
	}
	if err := l.fs.Remove(src); err != nil {
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return nil
}

// copyFile copies src to dst preserving permissions and modification time
func (l *Local) copyFile(src, dst string) error {
	info, err := l.fs.Stat(src)
	if err != nil {
		return err
	}

	in, err := l.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := l.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	written, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != info.Size() {
		return fmt.Errorf("incomplete copy: expected %d bytes, wrote %d", info.Size(), written)
	}

	return l.fs.Chtimes(dst, info.ModTime(), info.ModTime())
}

// Delete removes a single file
func (l *Local) Delete(ctx context.Context, path string) error {
	if err := l.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check existence: %w", err)
	}
	return ok, nil
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	fi := toFileInfo(path, info)
	return &fi, nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	if err := l.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Fs exposes the underlying filesystem
func (l *Local) Fs() afero.Fs {
	return l.fs
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func toFileInfo(path string, info os.FileInfo) FileInfo {
	return FileInfo{
		Path:        path,
		Name:        info.Name(),
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Permissions: uint32(info.Mode().Perm()),
	}
}
