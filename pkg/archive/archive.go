// Package archive implements the append-only zip store that holds a copy of
// every file before it is moved or deleted.
//
// Entries are named by the file's base name only, so two files called
// x.txt from different directories share a slot: both entries are kept in
// the archive, and on extraction the later one overwrites the earlier.
package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sdejongh/filekeeper/pkg/logging"
	"github.com/sdejongh/filekeeper/pkg/models"
	"github.com/sdejongh/filekeeper/pkg/storage"
	"github.com/spf13/afero"
)

// Entry describes one file stored in the archive
type Entry struct {
	Name     string
	Size     int64
	Modified time.Time
}

// archiveMode is applied to the archive on every rewrite; temporary files
// are created owner-only
const archiveMode os.FileMode = 0644

// Archiver appends file copies to a single zip archive
type Archiver struct {
	backend storage.Backend
	fs      afero.Fs
	path    string
	actions *logging.ActionLog
	logger  logging.Logger
}

// New creates an archiver for the zip at path on the backend's filesystem.
// actions may be nil when backups should not be recorded in the action log.
func New(backend storage.Backend, path string, actions *logging.ActionLog, logger logging.Logger) *Archiver {
	return &Archiver{
		backend: backend,
		fs:      backend.Fs(),
		path:    path,
		actions: actions,
		logger:  logging.OrNull(logger).WithFields(logging.Fields{"component": "archive"}),
	}
}

// Path returns the archive location
func (a *Archiver) Path() string {
	return a.path
}

// Exists reports whether the archive file is present
func (a *Archiver) Exists(ctx context.Context) (bool, error) {
	ok, err := a.backend.Exists(ctx, a.path)
	if err != nil {
		return false, models.NewIOError("stat archive", a.path, err)
	}
	return ok, nil
}

// Backup appends a copy of the file at path under its base name.
//
// archive/zip cannot reopen an archive for writing, so the existing entries
// are raw-copied into a temporary file next to the archive, the new entry
// is added, and the temporary file is renamed over the archive.
func (a *Archiver) Backup(ctx context.Context, path string) error {
	info, err := a.backend.Stat(ctx, path)
	if err != nil {
		return models.NewIOError("backup", path, err)
	}
	if info.IsDir {
		return models.NewIOError("backup", path, fmt.Errorf("is a directory"))
	}

	src, err := a.backend.Open(ctx, path)
	if err != nil {
		return models.NewIOError("backup", path, err)
	}
	defer src.Close()

	dir := filepath.Dir(a.path)
	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		return models.NewIOError("backup", a.path, err)
	}

	tmp, err := afero.TempFile(a.fs, dir, ".backup-*.zip.tmp")
	if err != nil {
		return models.NewIOError("backup", a.path, err)
	}
	tmpName := tmp.Name()

	if err := a.writeWith(tmp, path, info, src); err != nil {
		tmp.Close()
		a.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		a.fs.Remove(tmpName)
		return models.NewIOError("backup", a.path, err)
	}
	if err := a.fs.Chmod(tmpName, archiveMode); err != nil {
		a.fs.Remove(tmpName)
		return models.NewIOError("backup", a.path, err)
	}

	if err := a.fs.Rename(tmpName, a.path); err != nil {
		a.fs.Remove(tmpName)
		return models.NewIOError("backup", a.path, err)
	}

	a.logger.Debug(ctx, "file backed up", logging.Fields{
		"path":  path,
		"entry": filepath.Base(path),
		"size":  info.Size,
	})

	if a.actions != nil {
		if err := a.actions.Record(models.ActionBackup, path); err != nil {
			return err
		}
	}

	return nil
}

// writeWith writes the current archive entries followed by the new file to w
func (a *Archiver) writeWith(w io.Writer, path string, info *storage.FileInfo, src io.Reader) error {
	zw := zip.NewWriter(w)

	existing, closer, err := a.openReader()
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if existing != nil {
		defer closer.Close()
		for _, f := range existing.File {
			if err := zw.Copy(f); err != nil {
				return models.NewIOError("backup", a.path, fmt.Errorf("failed to copy entry %s: %w", f.Name, err))
			}
		}
	}

	header := &zip.FileHeader{
		Name:               filepath.Base(path),
		Method:             zip.Deflate,
		Modified:           info.ModTime,
		UncompressedSize64: uint64(info.Size),
	}
	header.SetMode(os.FileMode(info.Permissions))

	fw, err := zw.CreateHeader(header)
	if err != nil {
		return models.NewIOError("backup", a.path, err)
	}
	if _, err := io.Copy(fw, src); err != nil {
		return models.NewIOError("backup", path, err)
	}

	if err := zw.Close(); err != nil {
		return models.NewIOError("backup", a.path, err)
	}
	return nil
}

// openReader opens the archive for reading. A missing archive is reported
// with an error satisfying os.IsNotExist.
func (a *Archiver) openReader() (*zip.Reader, io.Closer, error) {
	file, err := a.fs.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, err
		}
		return nil, nil, models.NewIOError("open archive", a.path, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, models.NewIOError("open archive", a.path, err)
	}

	reader, err := zip.NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, nil, models.NewIOError("open archive", a.path, fmt.Errorf("archive is corrupt: %w", err))
	}

	return reader, file, nil
}

// Entries lists the archive contents in the order they were appended.
// A missing archive yields no entries.
func (a *Archiver) Entries(ctx context.Context) ([]Entry, error) {
	reader, closer, err := a.openReader()
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer closer.Close()

	entries := make([]Entry, 0, len(reader.File))
	for _, f := range reader.File {
		entries = append(entries, Entry{
			Name:     f.Name,
			Size:     int64(f.UncompressedSize64),
			Modified: f.Modified,
		})
	}
	return entries, nil
}

// Extract writes every archive entry below dir in archive order, so later
// entries with the same name overwrite earlier ones. It returns the number
// of entries written.
func (a *Archiver) Extract(ctx context.Context, dir string) (int, error) {
	reader, closer, err := a.openReader()
	if err != nil {
		return 0, models.NewIOError("extract", a.path, err)
	}
	defer closer.Close()

	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		return 0, models.NewIOError("extract", dir, err)
	}

	written := 0
	for _, f := range reader.File {
		target, err := entryPath(dir, f.Name)
		if err != nil {
			return written, models.NewIOError("extract", a.path, err)
		}

		if f.FileInfo().IsDir() {
			if err := a.fs.MkdirAll(target, 0755); err != nil {
				return written, models.NewIOError("extract", target, err)
			}
			continue
		}

		if err := a.extractFile(f, target); err != nil {
			return written, err
		}
		written++
	}

	a.logger.Debug(ctx, "archive extracted", logging.Fields{
		"dir":     dir,
		"entries": written,
	})

	return written, nil
}

func (a *Archiver) extractFile(f *zip.File, target string) error {
	if err := a.fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return models.NewIOError("extract", target, err)
	}

	rc, err := f.Open()
	if err != nil {
		return models.NewIOError("extract", f.Name, err)
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		perm = 0644
	}

	out, err := a.fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return models.NewIOError("extract", target, err)
	}

	// The CRC is checked when the entry reader hits EOF
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return models.NewIOError("extract", f.Name, err)
	}
	if err := out.Close(); err != nil {
		return models.NewIOError("extract", target, err)
	}

	if !f.Modified.IsZero() {
		a.fs.Chtimes(target, f.Modified, f.Modified)
	}
	return nil
}

// entryPath resolves an entry name below dir, rejecting names that escape it
func entryPath(dir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." ||
		strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("illegal entry name %q", name)
	}
	return filepath.Join(dir, clean), nil
}
