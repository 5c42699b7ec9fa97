package ephemeral

import (
	"context"
	"sync"

	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/spf13/afero"
)

// EphemeralBackend keeps every object in memory. Its content is lost on
// Close, which makes it suitable for scratch namespaces only.
type EphemeralBackend struct {
	mu sync.RWMutex
	fs afero.Fs

	maxObjectSize int64
}

func NewEphemeralBackend(maxObjectSize int64) *EphemeralBackend {
	return &EphemeralBackend{
		fs:            afero.NewMemMapFs(),
		maxObjectSize: maxObjectSize,
	}
}

// Returns the identifier name defined for this backend
func (*EphemeralBackend) Name() string {
	return "ephemeral"
}

// Open is part of the lifecycle behavious and gets called when opening this backend.
func (eb *EphemeralBackend) Open(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	// No initialization needed - backend is ready to use
	if eb.fs == nil {
		eb.fs = afero.NewMemMapFs()
	}
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend.
func (eb *EphemeralBackend) Close(ctx context.Context) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.fs = nil
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend.
func (eb *EphemeralBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityObjectStorage,
			backend.CapabilityAtomicWrite,
		},
		MaxObjectSize: eb.maxObjectSize,
	}
}

// memPath converts a key into the absolute form used by the memory fs.
func memPath(key string) string {
	return "/" + key
}
