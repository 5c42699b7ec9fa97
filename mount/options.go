package mount

import "fmt"

type MountOptions struct {
	ReadOnly bool  // Whether the mount is read-only.
	Quota    int64 // Byte limit of the namespace, 0 when untracked.
}

type MountOption func(*MountOptions) error

func newDefaultMountOptions() *MountOptions {
	return &MountOptions{
		ReadOnly: false,
		Quota:    0,
	}
}

// AsReadOnly specifies, if this mount is in a readonly state.
func AsReadOnly() MountOption {
	return func(mo *MountOptions) error {
		mo.ReadOnly = true
		return nil
	}
}

// WithQuota sets the byte limit tracked for this mount.
func WithQuota(limit int64) MountOption {
	return func(mo *MountOptions) error {
		if limit <= 0 {
			return fmt.Errorf("quota limit must be positive: %d", limit)
		}
		mo.Quota = limit
		return nil
	}
}
