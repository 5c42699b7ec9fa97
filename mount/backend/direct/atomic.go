package direct

import (
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/mwantia/cartvfs/mount/backend"
)

// writeAtomicUnsafe stages dat in a temporary file next to key, syncs it
// and renames it into place. The parent directory is synced afterwards so
// the rename survives a power loss.
// MUST be called while holding a write lock.
func (db *DirectBackend) writeAtomicUnsafe(key string, dat []byte) error {
	dir := path.Dir(key)
	temporaryKey := path.Join(dir, backend.TempPrefix+uuid.NewString()+backend.TempSuffix)

	file, err := db.fs.OpenFile(temporaryKey, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return backend.MapError(err, "create temporary", key)
	}

	// Write, sync, close in that order. If any step fails, remove the
	// temporary file and report the first error.
	if _, err := file.Write(dat); err != nil {
		file.Close()
		db.fs.Remove(temporaryKey)
		return backend.MapError(err, "write temporary", key)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		db.fs.Remove(temporaryKey)
		return backend.MapError(err, "sync temporary", key)
	}
	if err := file.Close(); err != nil {
		db.fs.Remove(temporaryKey)
		return backend.MapError(err, "close temporary", key)
	}

	if err := db.fs.Rename(temporaryKey, key); err != nil {
		db.fs.Remove(temporaryKey)
		return backend.MapError(err, "rename", key)
	}

	parentDirectory, err := db.fs.Open(dir)
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// sweepUnsafe removes every file carrying the reserved staging name, such
// as those left behind by an interrupted write. Keys can never use that
// name, so nothing reachable is lost.
// MUST be called while holding a write lock.
func (db *DirectBackend) sweepUnsafe() error {
	var stale []string

	err := filepath.Walk(db.path, func(fullPath string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() && backend.IsTempName(info.Name()) {
			stale = append(stale, fullPath)
		}
		return nil
	})
	if err != nil {
		return backend.MapError(err, "sweep", db.path)
	}

	for _, fullPath := range stale {
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			return backend.MapError(err, "sweep", fullPath)
		}
	}

	return nil
}
