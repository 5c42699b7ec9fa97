package ephemeral

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/spf13/afero"
)

var errClosed = errors.New("ephemeral backend closed")

func (eb *EphemeralBackend) ReadObject(ctx context.Context, key string) ([]byte, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.fs == nil {
		return nil, verrors.IO(errClosed, "read", key)
	}

	info, err := eb.fs.Stat(memPath(key))
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}
	if info.IsDir() {
		return nil, verrors.IsDirectory(key)
	}

	content, err := afero.ReadFile(eb.fs, memPath(key))
	if err != nil {
		return nil, backend.MapError(err, "read", key)
	}
	return content, nil
}

// WriteObject replaces the object in a single step under the write lock,
// so readers never observe partial content.
func (eb *EphemeralBackend) WriteObject(ctx context.Context, key string, dat []byte) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.fs == nil {
		return verrors.IO(errClosed, "write", key)
	}
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	if key == "" {
		return verrors.IsDirectory(key)
	}

	if info, err := eb.fs.Stat(memPath(key)); err == nil && info.IsDir() {
		return verrors.IsDirectory(key)
	}

	if dir := path.Dir(key); dir != "." {
		if err := eb.checkParentsUnsafe(dir); err != nil {
			return err
		}
		if err := eb.fs.MkdirAll(memPath(dir), 0755); err != nil {
			return backend.MapError(err, "mkdir", dir)
		}
	}

	content := make([]byte, len(dat))
	copy(content, dat)

	if err := afero.WriteFile(eb.fs, memPath(key), content, 0644); err != nil {
		return backend.MapError(err, "write", key)
	}
	return nil
}

// checkParentsUnsafe fails when a component of dir exists as a file.
// MUST be called while holding a lock.
func (eb *EphemeralBackend) checkParentsUnsafe(dir string) error {
	current := ""
	for _, segment := range strings.Split(dir, "/") {
		current = path.Join(current, segment)

		info, err := eb.fs.Stat(memPath(current))
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return verrors.NotDirectory(current)
		}
	}
	return nil
}

func (eb *EphemeralBackend) DeleteObject(ctx context.Context, key string) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if eb.fs == nil {
		return verrors.IO(errClosed, "delete", key)
	}
	if key == "" {
		return verrors.IO(errors.New("cannot remove the root"), "delete", key)
	}

	info, err := eb.fs.Stat(memPath(key))
	if err != nil {
		return backend.MapError(err, "stat", key)
	}

	if info.IsDir() {
		entries, err := afero.ReadDir(eb.fs, memPath(key))
		if err != nil {
			return backend.MapError(err, "readdir", key)
		}
		if len(entries) > 0 {
			return verrors.DirectoryNotEmpty(key)
		}
	}

	if err := eb.fs.Remove(memPath(key)); err != nil {
		return backend.MapError(err, "remove", key)
	}
	return nil
}

func (eb *EphemeralBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.fs == nil {
		return nil, verrors.IO(errClosed, "stat", key)
	}

	info, err := eb.fs.Stat(memPath(key))
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}
	return data.NewFileStat(key, info), nil
}

func (eb *EphemeralBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.fs == nil {
		return nil, verrors.IO(errClosed, "list", key)
	}

	info, err := eb.fs.Stat(memPath(key))
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}
	if !info.IsDir() {
		return nil, verrors.NotDirectory(key)
	}

	entries, err := afero.ReadDir(eb.fs, memPath(key))
	if err != nil {
		return nil, backend.MapError(err, "readdir", key)
	}

	stats := make([]*data.FileStat, 0, len(entries))
	for _, entry := range entries {
		stats = append(stats, data.NewFileStat(path.Join(key, entry.Name()), entry))
	}
	return stats, nil
}

func (eb *EphemeralBackend) WalkObjects(ctx context.Context, fn backend.WalkFunc) error {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if eb.fs == nil {
		return verrors.IO(errClosed, "walk", "")
	}

	return afero.Walk(eb.fs, "/", func(fullPath string, info os.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return backend.MapError(err, "walk", fullPath)
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return fn(data.NewFileStat(strings.TrimPrefix(fullPath, "/"), info))
	})
}
