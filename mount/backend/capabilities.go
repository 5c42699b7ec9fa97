package backend

import "slices"

// BackendCapability represents a capability that a backend can provide
type BackendCapability string

const (
	// Core capability of every backend
	CapabilityObjectStorage BackendCapability = "object_storage"

	// Behavioural capabilities
	CapabilityReadOnly    BackendCapability = "read_only"
	CapabilityAtomicWrite BackendCapability = "atomic_write"
	CapabilityPersistent  BackendCapability = "persistent"
)

// BackendCapabilities describes what a backend supports
type BackendCapabilities struct {
	Capabilities []BackendCapability `json:"capabilities"`
	// MaxObjectSize limits a single object, 0 means unlimited
	MaxObjectSize int64 `json:"max_object_size"`
}

// Contains checks if a capability is supported
func (bc *BackendCapabilities) Contains(cap BackendCapability) bool {
	return slices.Contains(bc.Capabilities, cap)
}

// Fits reports whether an object of size bytes is accepted by the backend.
func (bc *BackendCapabilities) Fits(size int64) bool {
	return bc.MaxObjectSize <= 0 || size <= bc.MaxObjectSize
}
