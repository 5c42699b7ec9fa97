package direct

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/spf13/afero"
)

var (
	errOutsideRoot   = errors.New("resolved path leaves the backend root")
	errSymlinkEscape = errors.New("symlink resolves outside the backend root")
	errSymlinkDenied = errors.New("symlinks are not followed in this backend")
)

// DirectBackend stores every object as one file below a host directory.
type DirectBackend struct {
	mu      sync.RWMutex
	path    string
	real    string
	fs      *afero.BasePathFs
	options *DirectOptions
}

type DirectOptions struct {
	Create        bool  // Create the root directory if it is missing
	AtomicWrites  bool  // Stage writes in a temporary file and rename into place
	ReadOnly      bool  // Reject every mutating call
	NoSymlinks    bool  // Treat every symlink as missing
	MaxObjectSize int64 // Largest accepted object, 0 means unlimited
}

type DirectOption func(*DirectOptions) error

// WithCreate creates the root directory on Open if it does not exist.
func WithCreate() DirectOption {
	return func(o *DirectOptions) error {
		o.Create = true
		return nil
	}
}

// WithAtomicWrites enables temp file and rename writes.
func WithAtomicWrites() DirectOption {
	return func(o *DirectOptions) error {
		o.AtomicWrites = true
		return nil
	}
}

// AsReadOnly marks the backend as read-only.
func AsReadOnly() DirectOption {
	return func(o *DirectOptions) error {
		o.ReadOnly = true
		return nil
	}
}

// WithoutSymlinks refuses symlinks even when their target stays inside
// the root. Quota checked stores need this so that one file cannot be
// reached under two keys.
func WithoutSymlinks() DirectOption {
	return func(o *DirectOptions) error {
		o.NoSymlinks = true
		return nil
	}
}

func WithMaxObjectSize(size int64) DirectOption {
	return func(o *DirectOptions) error {
		if size < 0 {
			return fmt.Errorf("max object size must not be negative: %d", size)
		}
		o.MaxObjectSize = size
		return nil
	}
}

func NewDirectBackend(path string, opts ...DirectOption) (*DirectBackend, error) {
	options := &DirectOptions{}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return &DirectBackend{
		path:    abs,
		options: options,
	}, nil
}

// Returns the identifier name defined for this backend
func (*DirectBackend) Name() string {
	return "direct"
}

// Path returns the absolute host root of the backend.
func (db *DirectBackend) Path() string {
	return db.path
}

// Open is part of the lifecycle behavious and gets called when opening this backend.
func (db *DirectBackend) Open(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.options.Create && !db.options.ReadOnly {
		if err := os.MkdirAll(db.path, 0755); err != nil {
			return verrors.IO(err, "create root", db.path)
		}
	}

	// Verify the root directory exists
	info, err := os.Stat(db.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return verrors.NotFound(err, db.path)
		}
		return verrors.IO(err, "stat root", db.path)
	}

	// Ensure the root is a directory
	if !info.IsDir() {
		return verrors.NotDirectory(db.path)
	}

	real, err := filepath.EvalSymlinks(db.path)
	if err != nil {
		return verrors.IO(err, "resolve root", db.path)
	}

	db.real = real
	db.fs = afero.NewBasePathFs(afero.NewOsFs(), db.path).(*afero.BasePathFs)

	if !db.options.ReadOnly {
		if err := db.sweepUnsafe(); err != nil {
			return err
		}
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (db *DirectBackend) Close(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	// The underlying filesystem persists independently
	db.fs = nil
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (db *DirectBackend) GetCapabilities() *backend.BackendCapabilities {
	caps := []backend.BackendCapability{
		backend.CapabilityObjectStorage,
		backend.CapabilityPersistent,
	}
	if db.options.ReadOnly {
		caps = append(caps, backend.CapabilityReadOnly)
	}
	if db.options.AtomicWrites {
		caps = append(caps, backend.CapabilityAtomicWrite)
	}

	return &backend.BackendCapabilities{
		Capabilities:  caps,
		MaxObjectSize: db.options.MaxObjectSize,
	}
}

// resolvePath returns the host path for key. The result is lexically
// re-checked against the root, and every existing component is checked
// for symlinks that lead outside of it.
func (db *DirectBackend) resolvePath(key string) (string, error) {
	if db.fs == nil {
		return "", verrors.IO(fs.ErrClosed, "resolve", key)
	}

	full := filepath.Join(db.path, filepath.FromSlash(key))
	if !within(db.path, full) {
		return "", verrors.InvalidPath(errOutsideRoot, key)
	}

	if err := db.checkSymlinks(key); err != nil {
		return "", err
	}

	return full, nil
}

// checkSymlinks walks key component by component and refuses symlinks
// whose target leaves the real root, or every symlink with NoSymlinks.
func (db *DirectBackend) checkSymlinks(key string) error {
	if key == "" {
		return nil
	}

	current := ""
	for _, segment := range strings.Split(key, "/") {
		current = filepath.Join(current, segment)

		info, _, err := db.fs.LstatIfPossible(current)
		if err != nil {
			// Nothing below a missing component can be a link
			return nil
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			continue
		}
		if db.options.NoSymlinks {
			return verrors.NotFound(errSymlinkDenied, key)
		}

		target, err := filepath.EvalSymlinks(filepath.Join(db.path, current))
		if err != nil || !within(db.real, target) {
			return verrors.NotFound(errSymlinkEscape, key)
		}
	}

	return nil
}

func (db *DirectBackend) checkWritable(key string) error {
	if db.options.ReadOnly {
		return verrors.ReadOnly(key)
	}
	return nil
}

// within reports whether target is root or lies below it.
func within(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
