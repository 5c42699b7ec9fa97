package backend

import (
	"context"

	"github.com/mwantia/cartvfs/data"
)

// ObjectStorageBackend stores whole objects addressed by a validated,
// slash separated key relative to the backend root. The empty key
// denotes the root directory.
type ObjectStorageBackend interface {
	Backend

	// ReadObject returns the complete content stored under key.
	ReadObject(ctx context.Context, key string) ([]byte, error)

	// WriteObject replaces the content stored under key, creating missing
	// parent directories. Backends with CapabilityAtomicWrite never expose
	// partially written content.
	WriteObject(ctx context.Context, key string, data []byte) error

	// DeleteObject removes a file or an empty directory.
	DeleteObject(ctx context.Context, key string) error

	// HeadObject returns the stat of key without reading its content.
	HeadObject(ctx context.Context, key string) (*data.FileStat, error)

	// ListObjects returns the direct children of the directory key.
	ListObjects(ctx context.Context, key string) ([]*data.FileStat, error)

	// WalkObjects calls fn for every regular object in the backend.
	WalkObjects(ctx context.Context, fn WalkFunc) error
}

// WalkFunc is called by WalkObjects. Returning an error stops the walk.
type WalkFunc func(stat *data.FileStat) error
