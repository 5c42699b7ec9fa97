package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
)

func (sb *SQLiteBackend) ReadObject(ctx context.Context, key string) ([]byte, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return nil, verrors.IO(errClosed, "read", key)
	}

	if _, exists := sb.keys.Get(key); !exists {
		if sb.isDirUnsafe(key) {
			return nil, verrors.IsDirectory(key)
		}
		return nil, verrors.NotFound(nil, key)
	}

	var content []byte
	err := sb.db.QueryRowContext(ctx, "SELECT content FROM vfs_objects WHERE key = ?", key).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, verrors.NotFound(nil, key)
	}
	if err != nil {
		return nil, verrors.IO(err, "read", key)
	}

	if content == nil {
		content = []byte{}
	}
	return content, nil
}

func (sb *SQLiteBackend) WriteObject(ctx context.Context, key string, dat []byte) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		return verrors.IO(errClosed, "write", key)
	}
	if err := backend.ValidateKey(key); err != nil {
		return err
	}
	if key == "" || sb.isDirUnsafe(key) {
		return verrors.IsDirectory(key)
	}
	if parent := sb.fileParentUnsafe(key); parent != "" {
		return verrors.NotDirectory(parent)
	}

	if dat == nil {
		dat = []byte{}
	}

	tx, err := sb.db.BeginTx(ctx, nil)
	if err != nil {
		return verrors.IO(err, "begin", key)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vfs_objects (key, content, size, modify_time)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			content = excluded.content,
			size = excluded.size,
			modify_time = excluded.modify_time
	`, key, dat, int64(len(dat)), time.Now().UnixNano())
	if err != nil {
		return verrors.IO(err, "write", key)
	}

	if err := tx.Commit(); err != nil {
		return verrors.IO(err, "commit", key)
	}

	// Update B-tree only after the commit succeeded
	sb.keys.Set(key, int64(len(dat)))
	return nil
}

func (sb *SQLiteBackend) DeleteObject(ctx context.Context, key string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.db == nil {
		return verrors.IO(errClosed, "delete", key)
	}

	if _, exists := sb.keys.Get(key); !exists {
		if sb.isDirUnsafe(key) {
			return verrors.DirectoryNotEmpty(key)
		}
		return verrors.NotFound(nil, key)
	}

	if _, err := sb.db.ExecContext(ctx, "DELETE FROM vfs_objects WHERE key = ?", key); err != nil {
		return verrors.IO(err, "delete", key)
	}

	sb.keys.Delete(key)
	return nil
}

func (sb *SQLiteBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return nil, verrors.IO(errClosed, "stat", key)
	}

	if _, exists := sb.keys.Get(key); !exists {
		if sb.isDirUnsafe(key) {
			return data.NewDirectoryStat(key, time.Time{}), nil
		}
		return nil, verrors.NotFound(nil, key)
	}

	stat, err := sb.headObjectUnsafe(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, verrors.NotFound(nil, key)
	}
	if err != nil {
		return nil, verrors.IO(err, "stat", key)
	}
	return stat, nil
}

func (sb *SQLiteBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return nil, verrors.IO(errClosed, "list", key)
	}

	if _, exists := sb.keys.Get(key); exists {
		return nil, verrors.NotDirectory(key)
	}
	if !sb.isDirUnsafe(key) {
		if key == "" {
			return []*data.FileStat{}, nil
		}
		return nil, verrors.NotFound(nil, key)
	}

	prefix := ""
	if key != "" {
		prefix = key + "/"
	}

	children := make([]string, 0)
	seen := make(map[string]bool)
	sb.keys.Ascend(prefix, func(child string, _ int64) bool {
		if !strings.HasPrefix(child, prefix) {
			return false
		}

		name, _, _ := strings.Cut(child[len(prefix):], "/")
		if !seen[name] {
			seen[name] = true
			children = append(children, prefix+name)
		}
		return true
	})

	stats := make([]*data.FileStat, 0, len(children))
	for _, child := range children {
		if _, exists := sb.keys.Get(child); !exists {
			stats = append(stats, data.NewDirectoryStat(child, time.Time{}))
			continue
		}

		stat, err := sb.headObjectUnsafe(ctx, child)
		if err != nil {
			return nil, verrors.IO(err, "stat", child)
		}
		stats = append(stats, stat)
	}

	return stats, nil
}

func (sb *SQLiteBackend) WalkObjects(ctx context.Context, fn backend.WalkFunc) error {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	if sb.db == nil {
		return verrors.IO(errClosed, "walk", "")
	}

	var walkErr error
	sb.keys.Scan(func(key string, size int64) bool {
		walkErr = fn(&data.FileStat{
			Key:         key,
			Mode:        0644,
			Size:        size,
			ContentType: data.GetMIMEType(key),
		})
		return walkErr == nil
	})

	return walkErr
}
