package jsonconfig

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsurePath(t *testing.T) {
	td := t.TempDir()

	blocker := filepath.Join(td, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	tests := []struct {
		name      string
		path      string
		wantErrIs error
		verify    func(t *testing.T, p string)
	}{
		{
			name: "creates missing parents",
			path: filepath.Join(td, "a", "b", "c.json"),
			verify: func(t *testing.T, p string) {
				info, err := os.Stat(filepath.Dir(p))
				if err != nil || !info.IsDir() {
					t.Fatalf("parent dir not created: %v", err)
				}
				if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
					t.Fatalf("file itself must not be created, stat err = %v", err)
				}
			},
		},
		{
			name: "existing file",
			path: blocker,
		},
		{
			name:      "path is a directory",
			path:      td,
			wantErrIs: ErrInaccessiblePath,
		},
		{
			name:      "parent is a file",
			path:      filepath.Join(blocker, "child", "c.json"),
			wantErrIs: ErrInaccessiblePath,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := EnsurePath(tt.path)
			if tt.wantErrIs != nil {
				if !errors.Is(err, tt.wantErrIs) {
					t.Fatalf("expected errors.Is(err, %v), got %v", tt.wantErrIs, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, tt.path)
			}
		})
	}
}

func TestEnsurePath_MkdirFailure(t *testing.T) {
	fsys := &failingMkdirFS{memFS: newMemFS()}
	err := ensurePath(fsys, filepath.Join("x", "y.json"))
	if !errors.Is(err, ErrCannotCreateDirectories) {
		t.Fatalf("expected ErrCannotCreateDirectories, got %v", err)
	}
}

func TestExists(t *testing.T) {
	fsys := newMemFS()
	fsys.files["here.json"] = []byte("{}")

	if ok, err := exists(fsys, "here.json"); err != nil || !ok {
		t.Fatalf("exists(here.json) = %v, %v", ok, err)
	}
	if ok, err := exists(fsys, "gone.json"); err != nil || ok {
		t.Fatalf("exists(gone.json) = %v, %v", ok, err)
	}

	fsys.statErr = os.ErrPermission
	if _, err := exists(fsys, "here.json"); !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected permission error, got %v", err)
	}
}

func TestOSFileSystem_RoundTrip(t *testing.T) {
	var fsys FileSystem = OSFileSystem{}
	dir := filepath.Join(t.TempDir(), "nested")
	p := filepath.Join(dir, "f.json")

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := fsys.WriteFile(p, []byte("first"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := fsys.WriteFile(p, []byte("2"), 0o600); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	data, err := fsys.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "2" {
		t.Fatalf("content = %q, want full overwrite", data)
	}
	info, err := fsys.Stat(p)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 1 {
		t.Fatalf("size = %d, want 1", info.Size())
	}
}

type failingMkdirFS struct {
	*memFS
}

func (failingMkdirFS) MkdirAll(string, os.FileMode) error { return os.ErrPermission }
