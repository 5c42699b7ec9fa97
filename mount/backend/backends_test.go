package backend_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/mwantia/cartvfs/mount/backend/direct"
	"github.com/mwantia/cartvfs/mount/backend/ephemeral"
	"github.com/mwantia/cartvfs/mount/backend/sqlite"
)

// TestBackendFactory creates a new writable backend instance for testing.
type TestBackendFactory func(t *testing.T) (backend.ObjectStorageBackend, error)

// GetTestBackendFactories returns all writable backend implementations to test.
func GetTestBackendFactories() map[string]TestBackendFactory {
	return map[string]TestBackendFactory{
		"direct": func(t *testing.T) (backend.ObjectStorageBackend, error) {
			return direct.NewDirectBackend(t.TempDir())
		},
		"direct-atomic": func(t *testing.T) (backend.ObjectStorageBackend, error) {
			return direct.NewDirectBackend(filepath.Join(t.TempDir(), "save"), direct.WithCreate(), direct.WithAtomicWrites())
		},
		"ephemeral": func(t *testing.T) (backend.ObjectStorageBackend, error) {
			return ephemeral.NewEphemeralBackend(0), nil
		},
		"sqlite": func(t *testing.T) (backend.ObjectStorageBackend, error) {
			return sqlite.NewSQLiteBackend(":memory:", 0), nil
		},
	}
}

func openBackend(t *testing.T, factory TestBackendFactory) backend.ObjectStorageBackend {
	t.Helper()

	b, err := factory(t)
	if err != nil {
		t.Fatalf("Backend init failed: %v", err)
	}
	if err := b.Open(t.Context()); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		b.Close(t.Context())
	})

	return b
}

func TestAllBackends_ObjectRoundTrip(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			b := openBackend(t, factory)

			content := []byte("hello world")
			if err := b.WriteObject(ctx, "slots/one/state.json", content); err != nil {
				t.Fatalf("WriteObject failed: %v", err)
			}

			got, err := b.ReadObject(ctx, "slots/one/state.json")
			if err != nil {
				t.Fatalf("ReadObject failed: %v", err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("Expected %q, got %q", content, got)
			}

			// Overwrite replaces the content completely
			if err := b.WriteObject(ctx, "slots/one/state.json", []byte("x")); err != nil {
				t.Fatalf("WriteObject overwrite failed: %v", err)
			}
			got, _ = b.ReadObject(ctx, "slots/one/state.json")
			if string(got) != "x" {
				t.Errorf("Expected 'x' after overwrite, got %q", got)
			}

			stat, err := b.HeadObject(ctx, "slots/one/state.json")
			if err != nil {
				t.Fatalf("HeadObject failed: %v", err)
			}
			if stat.Size != 1 {
				t.Errorf("Expected size 1, got %d", stat.Size)
			}
			if stat.ContentType != data.ContentTypeApplicationJSON {
				t.Errorf("Expected JSON content type, got '%s'", stat.ContentType)
			}

			dir, err := b.HeadObject(ctx, "slots")
			if err != nil {
				t.Fatalf("HeadObject on directory failed: %v", err)
			}
			if !dir.Mode.IsDir() {
				t.Error("Expected 'slots' to be a directory")
			}
		})
	}
}

func TestAllBackends_EmptyObject(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			b := openBackend(t, factory)

			if err := b.WriteObject(ctx, "empty.bin", nil); err != nil {
				t.Fatalf("WriteObject failed: %v", err)
			}

			got, err := b.ReadObject(ctx, "empty.bin")
			if err != nil {
				t.Fatalf("ReadObject failed: %v", err)
			}
			if len(got) != 0 {
				t.Errorf("Expected empty content, got %q", got)
			}
		})
	}
}

func TestAllBackends_NotFound(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			b := openBackend(t, factory)

			if _, err := b.ReadObject(ctx, "missing.txt"); !errors.Is(err, verrors.ErrNotExist) {
				t.Errorf("Expected ErrNotExist on read, got %v", err)
			}
			if _, err := b.HeadObject(ctx, "missing.txt"); !errors.Is(err, verrors.ErrNotExist) {
				t.Errorf("Expected ErrNotExist on head, got %v", err)
			}
			if err := b.DeleteObject(ctx, "missing.txt"); !errors.Is(err, verrors.ErrNotExist) {
				t.Errorf("Expected ErrNotExist on delete, got %v", err)
			}
		})
	}
}

func TestAllBackends_DirectoryRules(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			b := openBackend(t, factory)

			if err := b.WriteObject(ctx, "dir/file.txt", []byte("a")); err != nil {
				t.Fatalf("WriteObject failed: %v", err)
			}

			if _, err := b.ReadObject(ctx, "dir"); verrors.Code(err) != verrors.CodeIoError {
				t.Errorf("Expected IoError reading a directory, got %v", err)
			}
			if err := b.WriteObject(ctx, "dir", []byte("b")); verrors.Code(err) != verrors.CodeIoError {
				t.Errorf("Expected IoError writing over a directory, got %v", err)
			}
			if err := b.WriteObject(ctx, "dir/file.txt/nested", []byte("c")); verrors.Code(err) != verrors.CodeIoError {
				t.Errorf("Expected IoError writing below a file, got %v", err)
			}
			if err := b.DeleteObject(ctx, "dir"); !errors.Is(err, verrors.ErrDirectoryNotEmpty) {
				t.Errorf("Expected ErrDirectoryNotEmpty, got %v", err)
			}

			if err := b.DeleteObject(ctx, "dir/file.txt"); err != nil {
				t.Fatalf("DeleteObject failed: %v", err)
			}
			if _, err := b.ReadObject(ctx, "dir/file.txt"); !errors.Is(err, verrors.ErrNotExist) {
				t.Errorf("Expected ErrNotExist after delete, got %v", err)
			}
		})
	}
}

func TestAllBackends_ListAndWalk(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			b := openBackend(t, factory)

			files := map[string]string{
				"a.txt":         "1",
				"b/c.txt":       "22",
				"b/d/e.txt":     "333",
				"b-sibling.txt": "4444",
			}
			for key, content := range files {
				if err := b.WriteObject(ctx, key, []byte(content)); err != nil {
					t.Fatalf("WriteObject(%s) failed: %v", key, err)
				}
			}

			stats, err := b.ListObjects(ctx, "b")
			if err != nil {
				t.Fatalf("ListObjects failed: %v", err)
			}

			var names []string
			for _, stat := range stats {
				names = append(names, stat.Name())
			}
			sort.Strings(names)
			if len(names) != 2 || names[0] != "c.txt" || names[1] != "d" {
				t.Errorf("Expected [c.txt d], got %v", names)
			}

			root, err := b.ListObjects(ctx, "")
			if err != nil {
				t.Fatalf("ListObjects on root failed: %v", err)
			}
			if len(root) != 3 {
				t.Errorf("Expected 3 root entries, got %d", len(root))
			}

			var total int64
			count := 0
			err = b.WalkObjects(ctx, func(stat *data.FileStat) error {
				total += stat.Size
				count++
				return nil
			})
			if err != nil {
				t.Fatalf("WalkObjects failed: %v", err)
			}
			if count != 4 || total != 10 {
				t.Errorf("Expected 4 objects with 10 bytes, got %d objects with %d bytes", count, total)
			}

			if _, err := b.ListObjects(ctx, "a.txt"); !errors.Is(err, verrors.ErrNotDirectory) {
				t.Errorf("Expected ErrNotDirectory listing a file, got %v", err)
			}
		})
	}
}

func TestAllBackends_ReservedNames(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			b := openBackend(t, factory)

			err := b.WriteObject(t.Context(), "dir/.vfs-1234.tmp", []byte("x"))
			if !errors.Is(err, verrors.ErrInvalidPath) {
				t.Errorf("Expected ErrInvalidPath for staging name, got %v", err)
			}
		})
	}
}

func TestAllBackends_Capabilities(t *testing.T) {
	for name, factory := range GetTestBackendFactories() {
		t.Run(name, func(t *testing.T) {
			b := openBackend(t, factory)

			caps := b.GetCapabilities()
			if !caps.Contains(backend.CapabilityObjectStorage) {
				t.Error("Expected object storage capability")
			}
			if caps.Contains(backend.CapabilityReadOnly) {
				t.Error("Expected writable backend")
			}
			if !caps.Fits(1 << 20) {
				t.Error("Expected unlimited object size")
			}
		})
	}
}
