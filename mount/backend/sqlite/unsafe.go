package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/mwantia/cartvfs/data"
)

// This file contains internal "unsafe" methods that perform operations without acquiring locks.
// These methods MUST only be called when the caller already holds the appropriate lock.

// loadKeysUnsafe loads every stored key into the B-tree.
// MUST be called while holding a write lock.
func (sb *SQLiteBackend) loadKeysUnsafe(ctx context.Context) error {
	sb.keys.Clear()

	rows, err := sb.db.QueryContext(ctx, "SELECT key, size FROM vfs_objects")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var size int64
		if err := rows.Scan(&key, &size); err != nil {
			return err
		}
		sb.keys.Set(key, size)
	}

	return rows.Err()
}

// closeUnsafe releases the database handle.
// MUST be called while holding a write lock.
func (sb *SQLiteBackend) closeUnsafe() error {
	sb.keys.Clear()
	if sb.db == nil {
		return nil
	}

	err := sb.db.Close()
	sb.db = nil
	return err
}

// isDirUnsafe reports whether key is an implicit directory, meaning at
// least one stored key lies below it.
// MUST be called while holding at least a read lock.
func (sb *SQLiteBackend) isDirUnsafe(key string) bool {
	if key == "" {
		return true
	}

	prefix := key + "/"
	found := false
	sb.keys.Ascend(prefix, func(child string, _ int64) bool {
		found = strings.HasPrefix(child, prefix)
		return false
	})
	return found
}

// fileParentUnsafe returns the first parent of key that is stored as an
// object, or "" if there is none.
// MUST be called while holding at least a read lock.
func (sb *SQLiteBackend) fileParentUnsafe(key string) string {
	for i := 0; i < len(key); i++ {
		if key[i] != '/' {
			continue
		}
		if _, exists := sb.keys.Get(key[:i]); exists {
			return key[:i]
		}
	}
	return ""
}

// headObjectUnsafe reads the stat of a stored object.
// MUST be called while holding at least a read lock.
func (sb *SQLiteBackend) headObjectUnsafe(ctx context.Context, key string) (*data.FileStat, error) {
	var size, modifyTime int64
	err := sb.db.QueryRowContext(ctx, `
		SELECT size, modify_time FROM vfs_objects WHERE key = ?
	`, key).Scan(&size, &modifyTime)
	if err != nil {
		return nil, err
	}

	return &data.FileStat{
		Key:         key,
		Mode:        0644,
		Size:        size,
		ModifyTime:  time.Unix(0, modifyTime),
		ContentType: data.GetMIMEType(key),
	}, nil
}
