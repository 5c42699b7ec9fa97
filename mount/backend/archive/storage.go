package archive

import (
	"context"
	"io"
	"strings"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
)

func (ab *ArchiveBackend) ReadObject(ctx context.Context, key string) ([]byte, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.reader == nil {
		return nil, verrors.IO(errClosed, "read", key)
	}

	e, exists := ab.entries.Get(key)
	if !exists {
		return nil, verrors.NotFound(nil, key)
	}
	if e.file == nil {
		return nil, verrors.IsDirectory(key)
	}

	rc, err := e.file.Open()
	if err != nil {
		return nil, verrors.IO(err, "open entry", key)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, verrors.IO(err, "read entry", key)
	}

	return content, nil
}

func (ab *ArchiveBackend) WriteObject(ctx context.Context, key string, dat []byte) error {
	return verrors.ReadOnly(key)
}

func (ab *ArchiveBackend) DeleteObject(ctx context.Context, key string) error {
	return verrors.ReadOnly(key)
}

func (ab *ArchiveBackend) HeadObject(ctx context.Context, key string) (*data.FileStat, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.reader == nil {
		return nil, verrors.IO(errClosed, "stat", key)
	}

	e, exists := ab.entries.Get(key)
	if !exists {
		return nil, verrors.NotFound(nil, key)
	}
	return ab.statUnsafe(key, e), nil
}

func (ab *ArchiveBackend) ListObjects(ctx context.Context, key string) ([]*data.FileStat, error) {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.reader == nil {
		return nil, verrors.IO(errClosed, "list", key)
	}

	e, exists := ab.entries.Get(key)
	if !exists {
		return nil, verrors.NotFound(nil, key)
	}
	if e.file != nil {
		return nil, verrors.NotDirectory(key)
	}

	prefix := ""
	if key != "" {
		prefix = key + "/"
	}

	stats := make([]*data.FileStat, 0)
	ab.entries.Ascend(prefix, func(child string, ce *entry) bool {
		if !strings.HasPrefix(child, prefix) {
			return false
		}
		rest := child[len(prefix):]
		if rest == "" || strings.Contains(rest, "/") {
			return true
		}

		stats = append(stats, ab.statUnsafe(child, ce))
		return true
	})

	return stats, nil
}

func (ab *ArchiveBackend) WalkObjects(ctx context.Context, fn backend.WalkFunc) error {
	ab.mu.RLock()
	defer ab.mu.RUnlock()

	if ab.reader == nil {
		return verrors.IO(errClosed, "walk", "")
	}

	var walkErr error
	ab.entries.Scan(func(key string, e *entry) bool {
		if e.file == nil {
			return true
		}
		walkErr = fn(ab.statUnsafe(key, e))
		return walkErr == nil
	})

	return walkErr
}
