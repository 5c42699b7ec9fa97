package vfs

import (
	"context"

	"github.com/mwantia/cartvfs/data"
	"github.com/mwantia/cartvfs/data/errors"
)

// VirtualFileSystem is the sandboxed filesystem a cartridge script talks to.
// Every path is namespace qualified ("cart:/main.nut", "save:/progress.json",
// "temp:/cache/frame.bin") and validated before any storage is touched.
// All calls are serialized, so one instance can be shared between goroutines.
type VirtualFileSystem interface {
	// Init mounts the cart, save and temp namespaces and rebuilds the quota
	// state. A failing cart mount aborts Init, failing save or temp mounts
	// leave those namespaces unavailable.
	Init(ctx context.Context, cfg Config) error

	// Shutdown unmounts every namespace. Calling it again is a no-op.
	Shutdown(ctx context.Context) error

	// IsInitialized reports whether Init succeeded and Shutdown was not called.
	IsInitialized() bool

	// Exists reports whether path names an existing file or directory.
	// Any failure is reported as false.
	Exists(ctx context.Context, path string) bool

	// ReadBytes returns the content of the file at path.
	ReadBytes(ctx context.Context, path string) ([]byte, error)

	// ReadText returns the content of the file at path as string.
	ReadText(ctx context.Context, path string) (string, error)

	// WriteBytes atomically replaces the file at path with data.
	WriteBytes(ctx context.Context, path string, data []byte) error

	// WriteText atomically replaces the file at path with text.
	WriteText(ctx context.Context, path string, text string) error

	// Remove deletes the file or empty directory at path.
	Remove(ctx context.Context, path string) error

	// Stat returns the stat of the file or directory at path.
	Stat(ctx context.Context, path string) (*data.FileStat, error)

	// List returns the entries of the directory at path. A namespace root
	// such as "save:/" is accepted.
	List(ctx context.Context, path string) ([]*data.FileStat, error)

	// Usage returns the bytes used and the limit of a quota checked namespace.
	Usage(ns data.Namespace) (used, limit int64, ok bool)

	// LastError returns the code of the most recent failed call.
	LastError() errors.ErrorCode

	// LastErrorMessage returns the message of the most recent failed call.
	LastErrorMessage() string
}
