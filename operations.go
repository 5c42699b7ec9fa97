package vfs

import (
	"context"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/mount"
	"github.com/mwantia/cartvfs/policy"
	"github.com/mwantia/cartvfs/quota"
)

type parseFunc func(raw string) (data.Path, error)

// resolveUnsafe runs raw through the normalizer, the namespace policy and
// the mount lookup. Nothing below it ever sees an unvalidated path.
// MUST be called while holding the lock.
func (vfs *virtualFileSystemImpl) resolveUnsafe(raw string, op policy.Operation, parse parseFunc) (data.Path, *mount.Mount, error) {
	if !vfs.initialized {
		return data.Path{}, nil, verrors.NotInitialized(op.String())
	}

	p, err := parse(raw)
	if err != nil {
		return data.Path{}, nil, err
	}

	if !vfs.policy.Authorize(p.Namespace(), op) {
		return data.Path{}, nil, verrors.PermissionDenied(nil, p.String())
	}

	mnt, err := vfs.mounts.Get(p.Namespace())
	if err != nil {
		return data.Path{}, nil, err
	}

	if op == policy.OperationWrite && !mnt.Writable() {
		return data.Path{}, nil, verrors.ReadOnly(p.String())
	}

	if _, err := mnt.Resolve(p); err != nil {
		return data.Path{}, nil, err
	}

	return p, mnt, nil
}

func (vfs *virtualFileSystemImpl) Exists(ctx context.Context, path string) bool {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationRead, data.ParsePath)
	if err != nil {
		return false
	}

	_, err = mnt.Storage.HeadObject(ctx, p.Key())
	return err == nil
}

func (vfs *virtualFileSystemImpl) ReadBytes(ctx context.Context, path string) ([]byte, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationRead, data.ParsePath)
	if err != nil {
		return nil, vfs.fail("read", err)
	}

	content, err := mnt.Storage.ReadObject(ctx, p.Key())
	if err != nil {
		return nil, vfs.fail("read", err)
	}

	return content, nil
}

func (vfs *virtualFileSystemImpl) ReadText(ctx context.Context, path string) (string, error) {
	content, err := vfs.ReadBytes(ctx, path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// WriteBytes checks the quota before any byte is written and commits the
// new total only after the backend reported success.
func (vfs *virtualFileSystemImpl) WriteBytes(ctx context.Context, path string, dat []byte) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationWrite, data.ParsePath)
	if err != nil {
		return vfs.fail("write", err)
	}

	size := int64(len(dat))
	caps := mnt.Storage.GetCapabilities()
	if !caps.Fits(size) {
		return vfs.fail("write", verrors.QuotaExceeded(errObjectTooLarge, p.String(), size, caps.MaxObjectSize))
	}

	var reservation *quota.Reservation
	if policy.QuotaChecked(p.Namespace()) {
		reservation, err = vfs.quota.Reserve(p.Namespace(), p.Key(), size)
		if err != nil {
			return vfs.fail("write", err)
		}
	}

	if err := mnt.Storage.WriteObject(ctx, p.Key(), dat); err != nil {
		return vfs.fail("write", err)
	}

	if reservation != nil {
		vfs.quota.Commit(reservation)
	}

	return nil
}

func (vfs *virtualFileSystemImpl) WriteText(ctx context.Context, path string, text string) error {
	return vfs.WriteBytes(ctx, path, []byte(text))
}

func (vfs *virtualFileSystemImpl) Remove(ctx context.Context, path string) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationWrite, data.ParsePath)
	if err != nil {
		return vfs.fail("remove", err)
	}

	if err := mnt.Storage.DeleteObject(ctx, p.Key()); err != nil {
		return vfs.fail("remove", err)
	}

	if policy.QuotaChecked(p.Namespace()) {
		vfs.quota.Release(p.Namespace(), p.Key())
	}

	return nil
}

func (vfs *virtualFileSystemImpl) Stat(ctx context.Context, path string) (*data.FileStat, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationRead, data.ParseDirectory)
	if err != nil {
		return nil, vfs.fail("stat", err)
	}

	stat, err := mnt.Storage.HeadObject(ctx, p.Key())
	if err != nil {
		return nil, vfs.fail("stat", err)
	}

	stat.Path = p.String()
	return stat, nil
}

func (vfs *virtualFileSystemImpl) List(ctx context.Context, path string) ([]*data.FileStat, error) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	p, mnt, err := vfs.resolveUnsafe(path, policy.OperationRead, data.ParseDirectory)
	if err != nil {
		return nil, vfs.fail("list", err)
	}

	stats, err := mnt.Storage.ListObjects(ctx, p.Key())
	if err != nil {
		return nil, vfs.fail("list", err)
	}

	for _, stat := range stats {
		stat.Path = p.Child(stat.Name()).String()
	}
	return stats, nil
}
