package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/alnah/go-editorjs/internal/fileutil"
)

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	t.Run("creates parents and writes content", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "out", "nested", "doc.html")
		if err := fileutil.WriteAtomic(path, []byte("<p>x</p>"), 0o644, 0o750); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "<p>x</p>" {
			t.Errorf("content = %q", got)
		}
		if runtime.GOOS != "windows" {
			info, _ := os.Stat(path)
			if perm := info.Mode().Perm(); perm != 0o644 {
				t.Errorf("perm = %o, want 644", perm)
			}
		}
	})

	t.Run("replaces existing file without leftovers", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := filepath.Join(dir, "doc.html")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := fileutil.WriteAtomic(path, []byte("new"), 0o644, 0o750); err != nil {
			t.Fatalf("WriteAtomic() error = %v", err)
		}
		got, _ := os.ReadFile(path)
		if string(got) != "new" {
			t.Errorf("content = %q, want new", got)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("dir has %d entries, want 1", len(entries))
		}
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		if err := fileutil.WriteAtomic("", nil, 0o644, 0o750); !errors.Is(err, fileutil.ErrEmptyPath) {
			t.Errorf("error = %v, want ErrEmptyPath", err)
		}
	})

	t.Run("target is a directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		target := filepath.Join(dir, "taken")
		if err := os.Mkdir(target, 0o750); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(filepath.Join(target, "keep"), nil, 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := fileutil.WriteAtomic(target, []byte("x"), 0o644, 0o750); err == nil {
			t.Error("WriteAtomic() error = nil, want rename failure")
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 1 {
			t.Errorf("temp file left behind: %d entries", len(entries))
		}
	})
}

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.yaml")
	if err := os.WriteFile(file, nil, 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "regular file", path: file, want: true},
		{name: "directory", path: dir, want: false},
		{name: "missing", path: filepath.Join(dir, "none"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"editor":                 false,
		"my-editor":              false,
		"./editor.yaml":          true,
		"/etc/editor.yaml":       true,
		`C:\configs\editor.yaml`: true,
		"configs/editor":         true,
	}
	for in, want := range tests {
		if got := fileutil.IsFilePath(in); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", in, got, want)
		}
	}
}
