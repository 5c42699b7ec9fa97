package backend

import (
	"errors"
	"io/fs"
	"strings"

	verrors "github.com/mwantia/cartvfs/data/errors"
)

// TempPrefix and TempSuffix mark the staging files of atomic writes.
const (
	TempPrefix = ".vfs-"
	TempSuffix = ".tmp"
)

var errReservedName = errors.New("name reserved for staging files")

// IsTempName reports whether name is a staging file name.
func IsTempName(name string) bool {
	return strings.HasPrefix(name, TempPrefix) && strings.HasSuffix(name, TempSuffix)
}

// ValidateKey rejects keys that address staging files.
func ValidateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		if IsTempName(segment) {
			return verrors.InvalidPath(errReservedName, key)
		}
	}
	return nil
}

// MapError converts an error returned by the host filesystem into one
// wrapping a vfs sentinel. Errors that already carry a sentinel are
// returned unchanged.
func MapError(err error, op, key string) error {
	if err == nil {
		return nil
	}

	switch {
	case verrors.Code(err) != verrors.CodeIoError,
		errors.Is(err, verrors.ErrIO),
		errors.Is(err, verrors.ErrIsDirectory),
		errors.Is(err, verrors.ErrNotDirectory),
		errors.Is(err, verrors.ErrDirectoryNotEmpty):
		return err
	case errors.Is(err, fs.ErrNotExist):
		return verrors.NotFound(nil, key)
	default:
		return verrors.IO(err, op, key)
	}
}
