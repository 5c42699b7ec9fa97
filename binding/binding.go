// Package binding exposes the filesystem to a script engine.
//
// Scripts cannot inspect Go errors. Every call reports failure as false or
// nil and the reason is polled through LastError, mirroring how the script
// side of the engine consumes it.
package binding

import (
	"context"

	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/data/errors"
)

// FS is the "fs" table handed to cartridge scripts. It holds the filesystem
// it was constructed with; there is no process-wide instance.
type FS struct {
	ctx context.Context
	fs  vfs.VirtualFileSystem
}

// New binds fs for scripts running under ctx.
func New(ctx context.Context, fs vfs.VirtualFileSystem) *FS {
	return &FS{
		ctx: ctx,
		fs:  fs,
	}
}

// Exists reports whether path names an existing file or directory.
func (b *FS) Exists(path string) bool {
	return b.fs.Exists(b.ctx, path)
}

// Read returns the text content of path, or nil on failure.
func (b *FS) Read(path string) *string {
	text, err := b.fs.ReadText(b.ctx, path)
	if err != nil {
		return nil
	}
	return &text
}

// ReadBytes returns the content of path, or nil on failure.
// An existing empty file yields a non-nil empty slice.
func (b *FS) ReadBytes(path string) []byte {
	content, err := b.fs.ReadBytes(b.ctx, path)
	if err != nil {
		return nil
	}
	if content == nil {
		content = []byte{}
	}
	return content
}

// Write replaces path with text.
func (b *FS) Write(path string, text string) bool {
	return b.fs.WriteText(b.ctx, path, text) == nil
}

// WriteBytes replaces path with content.
func (b *FS) WriteBytes(path string, content []byte) bool {
	return b.fs.WriteBytes(b.ctx, path, content) == nil
}

// Remove deletes the file or empty directory at path.
func (b *FS) Remove(path string) bool {
	return b.fs.Remove(b.ctx, path) == nil
}

// List returns the entry names of the directory at path, or nil on failure.
func (b *FS) List(path string) []string {
	entries, err := b.fs.List(b.ctx, path)
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// LastError returns the message of the most recent failure, or an empty
// string if no call has failed yet.
func (b *FS) LastError() string {
	return b.fs.LastErrorMessage()
}

// LastErrorCode returns the name of the most recent failure code,
// e.g. "PermissionDenied".
func (b *FS) LastErrorCode() string {
	return b.fs.LastError().String()
}

// Failed reports whether the most recent failure carried code.
func (b *FS) Failed(code errors.ErrorCode) bool {
	return b.fs.LastError() == code
}

// Functions returns the binding table keyed by the names scripts call.
func (b *FS) Functions() map[string]any {
	return map[string]any{
		"exists":     b.Exists,
		"read":       b.Read,
		"readBytes":  b.ReadBytes,
		"write":      b.Write,
		"writeBytes": b.WriteBytes,
		"remove":     b.Remove,
		"list":       b.List,
		"lastError":  b.LastError,
	}
}
