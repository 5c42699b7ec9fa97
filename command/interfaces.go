// Package command runs host-side shell commands against a cartridge
// filesystem. Commands only see namespace-qualified paths and go through the
// same checks as cartridge scripts.
package command

import (
	"context"
	"io"

	"github.com/mwantia/cartvfs/data"
)

// API is the part of the filesystem commands operate on.
type API interface {
	// Exists reports whether path names an existing file or directory.
	Exists(ctx context.Context, path string) bool

	// ReadBytes returns the content of the file at path.
	ReadBytes(ctx context.Context, path string) ([]byte, error)

	// WriteBytes atomically replaces the file at path with data.
	WriteBytes(ctx context.Context, path string, data []byte) error

	// Remove deletes the file or empty directory at path.
	Remove(ctx context.Context, path string) error

	// Stat returns the stat of the file or directory at path.
	Stat(ctx context.Context, path string) (*data.FileStat, error)

	// List returns the entries of the directory at path.
	List(ctx context.Context, path string) ([]*data.FileStat, error)

	// Usage returns the bytes used and the limit of a quota checked namespace.
	Usage(ns data.Namespace) (used, limit int64, ok bool)
}

// Command represents an executable command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "ls [-l] <path>")
	Usage() string

	// Execute runs the command with parsed arguments and writes its output
	// to writer. It returns the exit code (0 = success) and the failure.
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
