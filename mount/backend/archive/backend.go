package archive

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/tidwall/btree"
)

var errClosed = errors.New("archive not open")

// ArchiveBackend serves a zip packaged cartridge read-only, without
// extracting it. Entries with names that would not survive path
// normalization are ignored.
type ArchiveBackend struct {
	mu     sync.RWMutex
	path   string
	reader *zip.ReadCloser

	// In-memory B-tree of normalized entry keys
	entries *btree.Map[string, *entry]
	opened  time.Time
}

type entry struct {
	file *zip.File // nil for directories
}

func NewArchiveBackend(path string) *ArchiveBackend {
	return &ArchiveBackend{
		path:    path,
		entries: btree.NewMap[string, *entry](0),
	}
}

// Returns the identifier name defined for this backend
func (*ArchiveBackend) Name() string {
	return "archive"
}

// Open is part of the lifecycle behavious and gets called when opening this backend.
func (ab *ArchiveBackend) Open(ctx context.Context) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	reader, err := zip.OpenReader(ab.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return verrors.NotFound(err, ab.path)
		}
		return verrors.IO(err, "open archive", ab.path)
	}

	ab.reader = reader
	ab.opened = time.Now()
	ab.entries.Clear()
	ab.entries.Set("", &entry{})

	for _, file := range reader.File {
		key, ok := normalizeName(file.Name)
		if !ok {
			continue
		}

		ab.addParentsUnsafe(key)
		if strings.HasSuffix(file.Name, "/") || file.FileInfo().IsDir() {
			ab.entries.Set(key, &entry{})
			continue
		}
		ab.entries.Set(key, &entry{file: file})
	}

	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (ab *ArchiveBackend) Close(ctx context.Context) error {
	ab.mu.Lock()
	defer ab.mu.Unlock()

	ab.entries.Clear()
	if ab.reader == nil {
		return nil
	}

	err := ab.reader.Close()
	ab.reader = nil
	return err
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (ab *ArchiveBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityReadOnly,
			backend.CapabilityPersistent,
		},
	}
}

// addParentsUnsafe registers every parent directory of key.
// MUST be called while holding a write lock.
func (ab *ArchiveBackend) addParentsUnsafe(key string) {
	for dir := path.Dir(key); dir != "." && dir != "/"; dir = path.Dir(dir) {
		if _, exists := ab.entries.Get(dir); exists {
			return
		}
		ab.entries.Set(dir, &entry{})
	}
}

// normalizeName converts a zip entry name into a key, reusing the
// cartridge path grammar so that no entry can address a traversal.
func normalizeName(name string) (string, bool) {
	name = strings.TrimPrefix(strings.TrimSuffix(name, "/"), "./")
	if name == "" {
		return "", false
	}

	p, err := data.ParsePath(data.NamespaceCart.String() + ":/" + name)
	if err != nil {
		return "", false
	}
	return p.Key(), true
}

func (ab *ArchiveBackend) statUnsafe(key string, e *entry) *data.FileStat {
	if e.file == nil {
		return data.NewDirectoryStat(key, ab.opened)
	}
	return data.NewFileStat(key, e.file.FileInfo())
}
