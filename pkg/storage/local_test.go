package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/spf13/afero"
)

func writeFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

func names(infos []FileInfo) []string {
	out := make([]string, 0, len(infos))
	for _, fi := range infos {
		out = append(out, fi.Name)
	}
	sort.Strings(out)
	return out
}

// TestLocalReadDir tests the non-recursive listing
func TestLocalReadDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{
		"a.txt":        "a",
		"b.log":        "b",
		"nested/c.txt": "c",
	})
	local := NewLocalFs(fs)
	ctx := context.Background()

	t.Run("DirectChildrenOnly", func(t *testing.T) {
		entries, err := local.ReadDir(ctx, "/src")
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}

		got := names(entries)
		if len(got) != 2 || got[0] != "a.txt" || got[1] != "b.log" {
			t.Errorf("ReadDir() = %v, want [a.txt b.log]", got)
		}
		for _, e := range entries {
			if e.Path != filepath.Join("/src", e.Name) {
				t.Errorf("Path = %s, want joined with source", e.Path)
			}
		}
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		if _, err := local.ReadDir(ctx, "/missing"); err == nil {
			t.Error("ReadDir() should fail for a missing directory")
		}
	})
}

// TestLocalWalk tests the recursive listing
func TestLocalWalk(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/root", map[string]string{
		"one.txt":        "1",
		"sub/two.txt":    "2",
		"sub/deep/three": "3",
		"other/four.md":  "4",
	})
	local := NewLocalFs(fs)
	ctx := context.Background()

	t.Run("AllDepths", func(t *testing.T) {
		entries, err := local.Walk(ctx, "/root")
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if len(entries) != 4 {
			t.Errorf("Walk() returned %d files, want 4", len(entries))
		}
		for _, e := range entries {
			if e.IsDir {
				t.Errorf("Walk() should not return directories, got %s", e.Path)
			}
		}
	})

	t.Run("EmptyDirectory", func(t *testing.T) {
		fs.MkdirAll("/empty", 0755)
		entries, err := local.Walk(ctx, "/empty")
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		if entries == nil || len(entries) != 0 {
			t.Errorf("Walk() = %v, want empty non-nil slice", entries)
		}
	})

	t.Run("MissingRoot", func(t *testing.T) {
		if _, err := local.Walk(ctx, "/nope"); err == nil {
			t.Error("Walk() should fail for a missing root")
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		if _, err := local.Walk(cancelled, "/root"); err == nil {
			t.Error("Walk() should stop on a cancelled context")
		}
	})
}

// TestLocalMove tests moving files
func TestLocalMove(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a.txt": "alpha"})
	fs.MkdirAll("/dst", 0755)
	local := NewLocalFs(fs)
	ctx := context.Background()

	if err := local.Move(ctx, "/src/a.txt", "/dst/a.txt"); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	if ok, _ := afero.Exists(fs, "/src/a.txt"); ok {
		t.Error("source should be gone after move")
	}
	data, err := afero.ReadFile(fs, "/dst/a.txt")
	if err != nil {
		t.Fatalf("failed to read moved file: %v", err)
	}
	if string(data) != "alpha" {
		t.Errorf("content = %q, want alpha", data)
	}

	if err := local.Move(ctx, "/src/missing.txt", "/dst/missing.txt"); err == nil {
		t.Error("Move() should fail for a missing source")
	}
}

// TestLocalCopyFile tests the cross-device fallback copy on a real filesystem
func TestLocalCopyFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "filekeeper-storage-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	src := filepath.Join(tempDir, "src.bin")
	dst := filepath.Join(tempDir, "dst.bin")
	if err := os.WriteFile(src, []byte("payload"), 0600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	local := NewLocal()
	if err := local.copyFile(src, dst); err != nil {
		t.Fatalf("copyFile() error = %v", err)
	}

	srcInfo, _ := os.Stat(src)
	dstInfo, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if dstInfo.Mode().Perm() != 0600 {
		t.Errorf("permissions = %o, want 600", dstInfo.Mode().Perm())
	}
	if !dstInfo.ModTime().Equal(srcInfo.ModTime()) {
		t.Errorf("modtime = %v, want %v", dstInfo.ModTime(), srcInfo.ModTime())
	}
}

// TestLocalDelete tests file removal
func TestLocalDelete(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a.txt": "a"})
	local := NewLocalFs(fs)
	ctx := context.Background()

	if err := local.Delete(ctx, "/src/a.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if ok, _ := local.Exists(ctx, "/src/a.txt"); ok {
		t.Error("file should not exist after Delete()")
	}
	if err := local.Delete(ctx, "/src/a.txt"); err == nil {
		t.Error("Delete() should fail for a missing file")
	}
}

// TestLocalOpenStat tests reads and metadata
func TestLocalOpenStat(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a.txt": "hello"})
	local := NewLocalFs(fs)
	ctx := context.Background()

	rc, err := local.Open(ctx, "/src/a.txt")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "hello" {
		t.Errorf("content = %q, want hello", data)
	}

	info, err := local.Stat(ctx, "/src/a.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size != 5 || info.Name != "a.txt" || info.IsDir {
		t.Errorf("Stat() = %+v", info)
	}

	if _, err := local.Stat(ctx, "/src/none"); err == nil {
		t.Error("Stat() should fail for a missing file")
	}
}

// TestLocalMkdirAll tests directory creation
func TestLocalMkdirAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	local := NewLocalFs(fs)
	ctx := context.Background()

	if err := local.MkdirAll(ctx, "/a/b/c"); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	// Idempotent
	if err := local.MkdirAll(ctx, "/a/b/c"); err != nil {
		t.Fatalf("second MkdirAll() error = %v", err)
	}
	if ok, _ := afero.DirExists(fs, "/a/b/c"); !ok {
		t.Error("directory should exist")
	}
}

// TestBackendInterface verifies Local implements Backend
func TestBackendInterface(t *testing.T) {
	var _ Backend = (*Local)(nil)
	var _ Backend = NewLocal()
}

// TestLocalSymlinkedDirectory checks that a symlink to a directory is not
// listed as a file, while a symlink to a file is
func TestLocalSymlinkedDirectory(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "a.txt"), []byte("a"), 0644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(root, "target")
	if err := os.MkdirAll(target, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(target, "inner.txt"), []byte("i"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "linked.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "a.txt"), filepath.Join(root, "alias.txt")); err != nil {
		t.Fatal(err)
	}

	local := NewLocal()
	ctx := context.Background()

	t.Run("ReadDir", func(t *testing.T) {
		entries, err := local.ReadDir(ctx, root)
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		got := names(entries)
		if len(got) != 2 || got[0] != "a.txt" || got[1] != "alias.txt" {
			t.Errorf("ReadDir() = %v, want [a.txt alias.txt]", got)
		}
	})

	t.Run("Walk", func(t *testing.T) {
		entries, err := local.Walk(ctx, root)
		if err != nil {
			t.Fatalf("Walk() error = %v", err)
		}
		got := names(entries)
		want := []string{"a.txt", "alias.txt", "inner.txt"}
		if len(got) != len(want) {
			t.Fatalf("Walk() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Walk() = %v, want %v", got, want)
				break
			}
		}
	})
}
