package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestCode(t *testing.T) {
	cause := fmt.Errorf("disk: %w", fs.ErrClosed)

	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil", nil, CodeNone},
		{"invalid path", InvalidPath(nil, "cart:/../x"), CodeInvalidPath},
		{"not found", NotFound(cause, "save:/x"), CodeNotFound},
		{"permission", PermissionDenied(nil, "cart:/x"), CodePermissionDenied},
		{"read-only", ReadOnly("cart:/x"), CodePermissionDenied},
		{"quota", QuotaExceeded(nil, "temp:/x", 20, 10), CodeQuotaExceeded},
		{"io", IO(cause, "write", "x"), CodeIoError},
		{"not initialized", NotInitialized("read"), CodeIoError},
		{"directory not empty", DirectoryNotEmpty("save:/dir"), CodeIoError},
		{"foreign", errors.New("boom"), CodeIoError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Code(tt.err); got != tt.expected {
				t.Errorf("Code() = %s, expected %s", got, tt.expected)
			}
		})
	}
}

func TestNewErrorKeepsCause(t *testing.T) {
	err := IO(fs.ErrPermission, "rename", "progress.json")

	if !errors.Is(err, ErrIO) {
		t.Error("Expected error to wrap ErrIO")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("Expected error to keep its cause")
	}
}

func TestErrorsAggregate(t *testing.T) {
	var errs Errors
	if errs.Errors() != nil {
		t.Fatal("Expected empty aggregate to be nil")
	}

	errs.Add(nil)
	errs.Add(NamespaceNotMounted(nil, "save"))
	errs.Add(MountFailed(nil, "temp"))

	joined := errs.Errors()
	if !errors.Is(joined, ErrNotMounted) || !errors.Is(joined, ErrMountFailed) {
		t.Errorf("Expected joined error to contain both sentinels, got %v", joined)
	}

	errs.Clear()
	if errs.Errors() != nil {
		t.Error("Expected aggregate to be empty after Clear")
	}
}
