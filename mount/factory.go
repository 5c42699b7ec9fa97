package mount

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/mwantia/cartvfs/mount/backend/archive"
	"github.com/mwantia/cartvfs/mount/backend/direct"
	"github.com/mwantia/cartvfs/mount/backend/ephemeral"
	"github.com/mwantia/cartvfs/mount/backend/sqlite"
)

// Storage kinds selectable for the save and temp namespaces.
const (
	StorageDirect = "direct"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

var (
	errInvalidCartridgeID = errors.New("cartridge id must be a single path segment")
	errUnknownCartridge   = errors.New("cartridge source must be a directory, .zip or .cart file")
)

// BackendOptions are the tunables shared by every storage kind.
type BackendOptions struct {
	MaxObjectSize int64 `mapstructure:"max_object_size"`
}

// DecodeBackendOptions decodes a loosely typed option map.
func DecodeBackendOptions(raw map[string]any) (*BackendOptions, error) {
	options := &BackendOptions{}
	if len(raw) == 0 {
		return options, nil
	}

	if err := mapstructure.Decode(raw, options); err != nil {
		return nil, fmt.Errorf("failed to decode backend options: %w", err)
	}
	if options.MaxObjectSize < 0 {
		return nil, fmt.Errorf("max_object_size must not be negative: %d", options.MaxObjectSize)
	}

	return options, nil
}

// ValidateCartridgeID checks that id can scope a storage root.
func ValidateCartridgeID(id string) error {
	if id == "" || id == "." || id == ".." ||
		strings.ContainsAny(id, `/\:`) ||
		strings.HasPrefix(id, ".") {
		return verrors.InvalidPath(errInvalidCartridgeID, id)
	}
	for _, r := range id {
		if r < 0x20 || r == 0x7f {
			return verrors.InvalidPath(errInvalidCartridgeID, id)
		}
	}
	return nil
}

// StorageRoot derives the per-cartridge root "<base>/<cartridgeId>".
func StorageRoot(base, cartridgeID string) (string, error) {
	if err := ValidateCartridgeID(cartridgeID); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(base)
	if err != nil {
		return "", verrors.IO(err, "resolve", base)
	}
	return filepath.Join(abs, cartridgeID), nil
}

// RootsOverlap reports whether the base directories a and b are the same
// directory or one contains the other. Save and temp roots must not
// overlap, otherwise temp could reach or purge save data.
func RootsOverlap(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, verrors.IO(err, "resolve", a)
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, verrors.IO(err, "resolve", b)
	}

	return contains(absA, absB) || contains(absB, absA), nil
}

// contains reports whether target is root or lies below it.
func contains(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// NewCartridgeStorage opens the cartridge source read-only. A directory
// is served as is, a .zip or .cart file is served from the archive.
func NewCartridgeStorage(source string) (backend.ObjectStorageBackend, error) {
	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, verrors.NotFound(err, source)
		}
		return nil, verrors.IO(err, "stat", source)
	}

	if info.IsDir() {
		return direct.NewDirectBackend(source, direct.AsReadOnly())
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".zip", ".cart":
		return archive.NewArchiveBackend(source), nil
	default:
		return nil, verrors.IO(errUnknownCartridge, "open", source)
	}
}

// SQLiteDirectory is the directory below the save root holding the
// database of every sqlite backed cartridge. Its leading dot keeps it
// apart from any cartridge directory.
const SQLiteDirectory = ".sqlite"

// NewSaveStorage creates the persistent storage of a cartridge. The
// directory kind writes atomically below root, the sqlite kind keeps a
// single database file at "<base>/.sqlite/<cartridgeId>.db".
func NewSaveStorage(kind, root string, options *BackendOptions) (backend.ObjectStorageBackend, string, error) {
	if options == nil {
		options = &BackendOptions{}
	}

	switch kind {
	case "", StorageDirect:
		storage, err := direct.NewDirectBackend(root,
			direct.WithCreate(),
			direct.WithAtomicWrites(),
			direct.WithoutSymlinks(),
			direct.WithMaxObjectSize(options.MaxObjectSize))
		return storage, root, err
	case StorageSQLite:
		dbPath := filepath.Join(filepath.Dir(root), SQLiteDirectory, filepath.Base(root)+".db")
		return sqlite.NewSQLiteBackend(dbPath, options.MaxObjectSize), dbPath, nil
	default:
		return nil, "", fmt.Errorf("unknown save storage '%s'", kind)
	}
}

// NewTempStorage creates the scratch storage of a cartridge.
func NewTempStorage(kind, root string, options *BackendOptions) (backend.ObjectStorageBackend, error) {
	if options == nil {
		options = &BackendOptions{}
	}

	switch kind {
	case "", StorageDirect:
		return direct.NewDirectBackend(root,
			direct.WithCreate(),
			direct.WithoutSymlinks(),
			direct.WithMaxObjectSize(options.MaxObjectSize))
	case StorageMemory:
		return ephemeral.NewEphemeralBackend(options.MaxObjectSize), nil
	default:
		return nil, fmt.Errorf("unknown temp storage '%s'", kind)
	}
}

// PurgeStorageRoot removes every file below root.
func PurgeStorageRoot(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return verrors.IO(err, "purge", root)
	}
	return nil
}
