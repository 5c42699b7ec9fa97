package errors

import (
	"errors"
	"fmt"
	"sync"
)

// Standard VFS errors. Every error returned through the facade wraps
// exactly one of them, so Code can classify it.
var (
	// Path errors
	ErrInvalidPath = errors.New("vfs: invalid path detected")

	// Lifecycle errors
	ErrNotInitialized     = errors.New("vfs: filesystem not initialized")
	ErrAlreadyInitialized = errors.New("vfs: filesystem already initialized")
	ErrNotMounted         = errors.New("vfs: namespace not mounted")
	ErrAlreadyMounted     = errors.New("vfs: namespace already mounted")
	ErrMountFailed        = errors.New("vfs: mount initialization failed")
	ErrInvalidConfig      = errors.New("vfs: invalid configuration")

	// Policy errors
	ErrPermission    = errors.New("vfs: permission denied")
	ErrReadOnly      = errors.New("vfs: read-only filesystem")
	ErrQuotaExceeded = errors.New("vfs: quota exceeded")

	// File operation errors
	ErrNotExist          = errors.New("vfs: file does not exist")
	ErrIsDirectory       = errors.New("vfs: is a directory")
	ErrNotDirectory      = errors.New("vfs: not a directory")
	ErrDirectoryNotEmpty = errors.New("vfs: directory not empty")
	ErrIO                = errors.New("vfs: i/o error")
)

// ErrorCode is the enumerated outcome of a filesystem call.
type ErrorCode int

const (
	CodeNone ErrorCode = iota
	CodeInvalidPath
	CodeNotFound
	CodePermissionDenied
	CodeQuotaExceeded
	CodeIoError
)

func (c ErrorCode) String() string {
	switch c {
	case CodeNone:
		return "None"
	case CodeInvalidPath:
		return "InvalidPath"
	case CodeNotFound:
		return "NotFound"
	case CodePermissionDenied:
		return "PermissionDenied"
	case CodeQuotaExceeded:
		return "QuotaExceeded"
	case CodeIoError:
		return "IoError"
	default:
		return "Unknown"
	}
}

// Code classifies err into an ErrorCode. Errors that wrap none of the
// policy sentinels are reported as CodeIoError.
func Code(err error) ErrorCode {
	switch {
	case err == nil:
		return CodeNone
	case errors.Is(err, ErrInvalidPath):
		return CodeInvalidPath
	case errors.Is(err, ErrNotExist):
		return CodeNotFound
	case errors.Is(err, ErrPermission), errors.Is(err, ErrReadOnly):
		return CodePermissionDenied
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	default:
		return CodeIoError
	}
}

type Errors struct {
	mu     sync.RWMutex
	errors []error
}

func (e *Errors) Add(err error) {
	if err == nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = append(e.errors, err)
}

func (e *Errors) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.errors = make([]error, 0)
}

func (e *Errors) Errors() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.errors) == 0 {
		return nil
	}

	return errors.Join(e.errors...)
}

// newError wraps kind with a formatted description and an optional cause.
func newError(kind error, err error, format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", kind, text, err)
	}

	return fmt.Errorf("%w: %s", kind, text)
}
