package direct

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/spf13/afero"
)

func (db *DirectBackend) ReadObject(ctx context.Context, key string) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.resolvePath(key); err != nil {
		return nil, err
	}

	info, err := db.fs.Stat(key)
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}
	if info.IsDir() {
		return nil, verrors.IsDirectory(key)
	}

	content, err := afero.ReadFile(db.fs, key)
	if err != nil {
		return nil, backend.MapError(err, "read", key)
	}

	return content, nil
}

func (db *DirectBackend) WriteObject(ctx context.Context, key string, dat []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkWritable(key); err != nil {
		return err
	}
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	if key == "" {
		return verrors.IsDirectory(key)
	}
	if _, err := db.resolvePath(key); err != nil {
		return err
	}

	if info, err := db.fs.Stat(key); err == nil && info.IsDir() {
		return verrors.IsDirectory(key)
	}

	if dir := path.Dir(key); dir != "." {
		if err := db.fs.MkdirAll(dir, 0755); err != nil {
			return backend.MapError(err, "mkdir", dir)
		}
	}

	if db.options.AtomicWrites {
		return db.writeAtomicUnsafe(key, dat)
	}

	if err := afero.WriteFile(db.fs, key, dat, 0644); err != nil {
		return backend.MapError(err, "write", key)
	}
	return nil
}

func (db *DirectBackend) DeleteObject(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkWritable(key); err != nil {
		return err
	}
	if key == "" {
		return verrors.IO(errors.New("cannot remove the root"), "delete", key)
	}
	if _, err := db.resolvePath(key); err != nil {
		return err
	}

	info, _, err := db.fs.LstatIfPossible(key)
	if err != nil {
		return backend.MapError(err, "stat", key)
	}

	if info.IsDir() {
		entries, err := afero.ReadDir(db.fs, key)
		if err != nil {
			return backend.MapError(err, "readdir", key)
		}
		if len(entries) > 0 {
			return verrors.DirectoryNotEmpty(key)
		}
	}

	if err := db.fs.Remove(key); err != nil {
		return backend.MapError(err, "remove", key)
	}
	return nil
}

func (db *DirectBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.resolvePath(key); err != nil {
		return nil, err
	}

	info, err := db.fs.Stat(key)
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}

	return data.NewFileStat(key, info), nil
}

func (db *DirectBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, err := db.resolvePath(key); err != nil {
		return nil, err
	}

	info, err := db.fs.Stat(key)
	if err != nil {
		return nil, backend.MapError(err, "stat", key)
	}
	if !info.IsDir() {
		return nil, verrors.NotDirectory(key)
	}

	entries, err := afero.ReadDir(db.fs, key)
	if err != nil {
		return nil, backend.MapError(err, "readdir", key)
	}

	stats := make([]*data.FileStat, 0, len(entries))
	for _, entry := range entries {
		if backend.IsTempName(entry.Name()) {
			continue
		}
		if db.options.NoSymlinks && entry.Mode()&fs.ModeSymlink != 0 {
			continue
		}

		childKey := path.Join(key, entry.Name())
		stats = append(stats, data.NewFileStat(childKey, entry))
	}

	return stats, nil
}

// WalkObjects visits every regular file below the root, including files
// that were placed there by hand. Symlinks are not followed.
func (db *DirectBackend) WalkObjects(ctx context.Context, fn backend.WalkFunc) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.fs == nil {
		return verrors.IO(fs.ErrClosed, "walk", "")
	}

	return filepath.Walk(db.path, func(fullPath string, info os.FileInfo, err error) error {
		if err != nil {
			return backend.MapError(err, "walk", fullPath)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !info.Mode().IsRegular() || backend.IsTempName(info.Name()) {
			return nil
		}

		rel, err := filepath.Rel(db.path, fullPath)
		if err != nil {
			return backend.MapError(err, "walk", fullPath)
		}

		return fn(data.NewFileStat(filepath.ToSlash(rel), info))
	})
}
