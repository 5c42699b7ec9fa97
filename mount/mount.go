package mount

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount/backend"
)

var (
	errWrongNamespace = errors.New("path belongs to another namespace")
	errEscapesRoot    = errors.New("resolved location escapes the mount root")
)

// Mount binds a namespace to the backing store that serves it.
type Mount struct {
	Namespace data.Namespace
	Root      string // Host location of the backing store
	Options   *MountOptions
	MountTime time.Time // When the mount was created.

	Storage backend.ObjectStorageBackend
}

func NewMount(ns data.Namespace, root string, storage backend.ObjectStorageBackend, opts ...MountOption) (*Mount, error) {
	options := newDefaultMountOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	if storage == nil {
		return nil, fmt.Errorf("mount '%s' requires a storage backend", ns)
	}

	if storage.GetCapabilities().Contains(backend.CapabilityReadOnly) {
		options.ReadOnly = true
	}

	return &Mount{
		Namespace: ns,
		Root:      filepath.Clean(root),
		Options:   options,
		Storage:   storage,
	}, nil
}

// Resolve returns the host location of p below the mount root. The
// joined location is checked lexically to still lie below the root
// before any backend is asked to touch it.
func (m *Mount) Resolve(p data.Path) (string, error) {
	if p.Namespace() != m.Namespace {
		return "", verrors.InvalidPath(errWrongNamespace, p.String())
	}

	full := filepath.Join(m.Root, filepath.FromSlash(p.Key()))

	rel, err := filepath.Rel(m.Root, full)
	if err != nil {
		return "", verrors.InvalidPath(err, p.String())
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", verrors.InvalidPath(errEscapesRoot, p.String())
	}

	return full, nil
}

// Writable reports whether the mount accepts writes at all.
func (m *Mount) Writable() bool {
	return !m.Options.ReadOnly
}

// Persistent reports whether the content survives a restart.
func (m *Mount) Persistent() bool {
	return m.Storage.GetCapabilities().Contains(backend.CapabilityPersistent)
}
