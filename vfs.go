package vfs

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/log"
	"github.com/mwantia/cartvfs/mount"
	"github.com/mwantia/cartvfs/mount/backend"
	"github.com/mwantia/cartvfs/policy"
	"github.com/mwantia/cartvfs/quota"
)

var errObjectTooLarge = errors.New("object exceeds the backend size limit")

type virtualFileSystemImpl struct {
	mu sync.Mutex

	log     *log.Logger
	session string
	cfg     Config

	initialized bool
	mounts      *mount.Manager
	quota       *quota.Tracker
	policy      *policy.Policy

	lastErr error
}

func NewVirtualFileSystem(opts ...VirtualFileSystemOption) (VirtualFileSystem, error) {
	options := newDefaultVirtualFileSystemOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	logger := options.Logger
	if logger == nil {
		logger = log.NewLogger("vfs", options.LogLevel, options.LogFile, options.NoTerminalLog)
	}

	return &virtualFileSystemImpl{
		log: logger,
	}, nil
}

// Init mounts the cart, save and temp namespaces and rebuilds the quota
// state of save and temp.
func (vfs *virtualFileSystemImpl) Init(ctx context.Context, cfg Config) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.initialized {
		return vfs.fail("init", verrors.ErrAlreadyInitialized)
	}

	cfg = cfg.clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return vfs.fail("init", verrors.InvalidConfig(err))
	}

	vfs.session = uuid.NewString()
	vfs.log.Info("Initializing session '%s' for cartridge '%s'", vfs.session, cfg.CartridgeID)

	mounts := mount.NewManager(vfs.log.Named("mount"))
	tracker := quota.NewTracker(vfs.log.Named("quota"))

	if err := vfs.mountCartridge(ctx, mounts, cfg); err != nil {
		vfs.log.Error("Unable to mount cartridge '%s': %v", cfg.CartridgePath, err)
		return vfs.fail("init", err)
	}

	if err := vfs.mountSave(ctx, mounts, tracker, cfg); err != nil {
		vfs.log.Warn("Namespace 'save' unavailable for this session: %v", err)
	}
	if err := vfs.mountTemp(ctx, mounts, tracker, cfg); err != nil {
		vfs.log.Warn("Namespace 'temp' unavailable for this session: %v", err)
	}

	vfs.cfg = cfg
	vfs.mounts = mounts
	vfs.quota = tracker
	vfs.policy = policy.New(cfg.SaveEnabled, mounts)
	vfs.initialized = true

	return nil
}

func (vfs *virtualFileSystemImpl) mountCartridge(ctx context.Context, mounts *mount.Manager, cfg Config) error {
	storage, err := mount.NewCartridgeStorage(cfg.CartridgePath)
	if err != nil {
		return verrors.MountFailed(err, data.NamespaceCart.String())
	}

	mnt, err := mount.NewMount(data.NamespaceCart, cfg.CartridgePath, storage, mount.AsReadOnly())
	if err != nil {
		return verrors.MountFailed(err, data.NamespaceCart.String())
	}

	return mounts.Mount(ctx, mnt)
}

func (vfs *virtualFileSystemImpl) mountSave(ctx context.Context, mounts *mount.Manager, tracker *quota.Tracker, cfg Config) error {
	root, err := mount.StorageRoot(cfg.SaveRootPath, cfg.CartridgeID)
	if err != nil {
		return err
	}

	options, err := mount.DecodeBackendOptions(cfg.SaveOptions)
	if err != nil {
		return verrors.InvalidConfig(err)
	}

	storage, location, err := mount.NewSaveStorage(cfg.SaveBackend, root, options)
	if err != nil {
		return verrors.InvalidConfig(err)
	}

	return vfs.mountTracked(ctx, mounts, tracker, data.NamespaceSave, location, storage, cfg.SaveQuota)
}

func (vfs *virtualFileSystemImpl) mountTemp(ctx context.Context, mounts *mount.Manager, tracker *quota.Tracker, cfg Config) error {
	options, err := mount.DecodeBackendOptions(cfg.TempOptions)
	if err != nil {
		return verrors.InvalidConfig(err)
	}

	if cfg.TempInMemory {
		storage, err := mount.NewTempStorage(mount.StorageMemory, "", options)
		if err != nil {
			return verrors.InvalidConfig(err)
		}
		return vfs.mountTracked(ctx, mounts, tracker, data.NamespaceTemp, cfg.CartridgeID, storage, cfg.TempQuota)
	}

	root, err := mount.StorageRoot(cfg.TempRootPath, cfg.CartridgeID)
	if err != nil {
		return err
	}

	if cfg.PurgeTemp {
		if err := mount.PurgeStorageRoot(root); err != nil {
			return err
		}
		vfs.log.Debug("Purged temp root '%s'", root)
	}

	storage, err := mount.NewTempStorage(mount.StorageDirect, root, options)
	if err != nil {
		return verrors.InvalidConfig(err)
	}

	return vfs.mountTracked(ctx, mounts, tracker, data.NamespaceTemp, root, storage, cfg.TempQuota)
}

// mountTracked mounts a quota checked namespace and rebuilds its totals.
// The mount is rolled back if the rebuild fails.
func (vfs *virtualFileSystemImpl) mountTracked(ctx context.Context, mounts *mount.Manager, tracker *quota.Tracker,
	ns data.Namespace, location string, storage backend.ObjectStorageBackend, limit int64) error {
	mnt, err := mount.NewMount(ns, location, storage, mount.WithQuota(limit))
	if err != nil {
		return verrors.MountFailed(err, ns.String())
	}

	if err := mounts.Mount(ctx, mnt); err != nil {
		return err
	}

	if err := tracker.Rebuild(ctx, ns, limit, storage); err != nil {
		mounts.Unmount(ctx, ns)
		return verrors.MountFailed(err, ns.String())
	}

	return nil
}

// Shutdown unmounts every namespace. It can be called any number of times.
func (vfs *virtualFileSystemImpl) Shutdown(ctx context.Context) error {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if !vfs.initialized {
		return nil
	}

	err := vfs.mounts.Shutdown(ctx)
	for _, ns := range data.Namespaces() {
		vfs.quota.Forget(ns)
	}

	vfs.initialized = false
	vfs.policy = nil
	vfs.log.Info("Session '%s' closed", vfs.session)

	if err != nil {
		vfs.log.Warn("Shutdown completed with errors: %v", err)
		return err
	}
	return nil
}

func (vfs *virtualFileSystemImpl) IsInitialized() bool {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	return vfs.initialized
}

func (vfs *virtualFileSystemImpl) Usage(ns data.Namespace) (int64, int64, bool) {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if !vfs.initialized {
		return 0, 0, false
	}
	return vfs.quota.Usage(ns)
}

func (vfs *virtualFileSystemImpl) LastError() verrors.ErrorCode {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	return verrors.Code(vfs.lastErr)
}

func (vfs *virtualFileSystemImpl) LastErrorMessage() string {
	vfs.mu.Lock()
	defer vfs.mu.Unlock()

	if vfs.lastErr == nil {
		return ""
	}
	return vfs.lastErr.Error()
}

// fail records err as the most recent error and returns it.
// MUST be called while holding the lock.
func (vfs *virtualFileSystemImpl) fail(op string, err error) error {
	vfs.lastErr = err
	vfs.log.Debug("Operation '%s' failed with %s: %v", op, verrors.Code(err), err)
	return err
}
