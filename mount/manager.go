package mount

import (
	"context"
	"sync"
	"time"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/log"
)

// Manager owns the mount of every namespace.
type Manager struct {
	mu     sync.RWMutex
	logger *log.Logger
	mounts map[data.Namespace]*Mount
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.NewDiscardLogger()
	}

	return &Manager{
		logger: logger,
		mounts: make(map[data.Namespace]*Mount),
	}
}

// Mount opens the storage of mnt and binds it to its namespace.
func (m *Manager) Mount(ctx context.Context, mnt *Mount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.mounts[mnt.Namespace]; exists {
		return verrors.NamespaceAlreadyMounted(nil, mnt.Namespace.String())
	}

	if err := mnt.Storage.Open(ctx); err != nil {
		return verrors.MountFailed(err, mnt.Namespace.String())
	}

	mnt.MountTime = time.Now()
	m.mounts[mnt.Namespace] = mnt

	m.logger.Info("Mounted '%s' on '%s' using backend '%s' (read-only: %t)",
		mnt.Namespace, mnt.Root, mnt.Storage.Name(), mnt.Options.ReadOnly)
	return nil
}

// Unmount closes the storage bound to ns.
func (m *Manager) Unmount(ctx context.Context, ns data.Namespace) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.unmountUnsafe(ctx, ns)
}

// unmountUnsafe MUST be called while holding a write lock.
func (m *Manager) unmountUnsafe(ctx context.Context, ns data.Namespace) error {
	mnt, exists := m.mounts[ns]
	if !exists {
		return verrors.NamespaceNotMounted(nil, ns.String())
	}

	delete(m.mounts, ns)
	if err := mnt.Storage.Close(ctx); err != nil {
		return verrors.IO(err, "unmount", ns.String())
	}

	m.logger.Info("Unmounted '%s'", ns)
	return nil
}

// Get returns the mount bound to ns.
func (m *Manager) Get(ns data.Namespace) (*Mount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mnt, exists := m.mounts[ns]
	if !exists {
		return nil, verrors.NamespaceNotMounted(nil, ns.String())
	}
	return mnt, nil
}

// IsMounted reports whether ns currently has a mount.
func (m *Manager) IsMounted(ns data.Namespace) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.mounts[ns]
	return exists
}

// Shutdown unmounts every namespace in reverse mount order and reports
// all failures together.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errs := verrors.Errors{}
	namespaces := data.Namespaces()
	for i := len(namespaces) - 1; i >= 0; i-- {
		if _, exists := m.mounts[namespaces[i]]; !exists {
			continue
		}
		errs.Add(m.unmountUnsafe(ctx, namespaces[i]))
	}

	return errs.Errors()
}
