package vfs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwantia/cartvfs/data"
	verrors "github.com/mwantia/cartvfs/data/errors"
	"github.com/mwantia/cartvfs/log"
	"github.com/mwantia/cartvfs/mount"
	"github.com/mwantia/cartvfs/mount/backend"
)

func TestVfs_SharedRootKeepsSaveIntact(t *testing.T) {
	ctx := t.Context()
	cfg := newTestConfig(t, t.TempDir(), mount.StorageDirect)

	first := newTestVfs(t, cfg)
	if err := first.WriteText(ctx, "save:/progress.json", "keep"); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	first.Shutdown(ctx)

	shared := cfg
	shared.TempRootPath = cfg.SaveRootPath
	shared.PurgeTemp = true

	fs, err := NewVirtualFileSystem(WithLogger(log.NewDiscardLogger()))
	if err != nil {
		t.Fatalf("NewVirtualFileSystem failed: %v", err)
	}
	if err := fs.Init(ctx, shared); !errors.Is(err, verrors.ErrInvalidConfig) {
		fs.Shutdown(ctx)
		t.Fatalf("Expected ErrInvalidConfig for shared roots, got %v", err)
	}

	second := newTestVfs(t, cfg)
	text, err := second.ReadText(ctx, "save:/progress.json")
	if err != nil {
		t.Fatalf("ReadText failed: %v", err)
	}
	if text != "keep" {
		t.Errorf("Expected save data to survive, got %q", text)
	}
}

func TestVfs_SymlinkAliasDoesNotDriftQuota(t *testing.T) {
	for name, prefix := range map[string]string{"save": "save:/", "temp": "temp:/"} {
		t.Run(name, func(t *testing.T) {
			ctx := t.Context()
			cfg := newTestConfig(t, t.TempDir(), mount.StorageDirect)

			base := cfg.SaveRootPath
			if name == "temp" {
				base = cfg.TempRootPath
			}
			root := filepath.Join(base, cfg.CartridgeID)
			if err := os.MkdirAll(filepath.Join(root, "real"), 0755); err != nil {
				t.Fatalf("MkdirAll failed: %v", err)
			}
			if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
				t.Skipf("Symlinks not supported: %v", err)
			}

			fs := newTestVfs(t, cfg)
			payload := bytes.Repeat([]byte("a"), 30)

			if err := fs.WriteBytes(ctx, prefix+"alias/f.txt", payload); verrors.Code(err) != verrors.CodeNotFound {
				t.Errorf("Expected NotFound writing through alias, got %v", err)
			}
			if err := fs.WriteBytes(ctx, prefix+"real/f.txt", payload); err != nil {
				t.Fatalf("WriteBytes failed: %v", err)
			}
			if fs.Exists(ctx, prefix+"alias/f.txt") {
				t.Error("Expected alias to be unreachable")
			}

			ns := data.NamespaceSave
			if name == "temp" {
				ns = data.NamespaceTemp
			}
			if used, _, _ := fs.Usage(ns); used != 30 {
				t.Errorf("Expected 30 bytes used, got %d", used)
			}

			// 34 bytes remain below the limit of 64
			if err := fs.WriteBytes(ctx, prefix+"other.txt", payload); err != nil {
				t.Errorf("Expected write within the remaining quota to pass, got %v", err)
			}
		})
	}
}

func TestVfs_ReservedNamesInTempAreSwept(t *testing.T) {
	ctx := t.Context()
	cfg := newTestConfig(t, t.TempDir(), mount.StorageDirect)

	root := filepath.Join(cfg.TempRootPath, cfg.CartridgeID)
	stale := filepath.Join(root, backend.TempPrefix+"placed"+backend.TempSuffix)
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(stale, bytes.Repeat([]byte("s"), 40), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fs := newTestVfs(t, cfg)

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("Expected reserved file to be removed, got %v", err)
	}
	if used, _, _ := fs.Usage(data.NamespaceTemp); used != 0 {
		t.Errorf("Expected temp usage 0, got %d", used)
	}
	if err := fs.WriteBytes(ctx, "temp:/frame.bin", bytes.Repeat([]byte("f"), 64)); err != nil {
		t.Errorf("Expected full quota to be available, got %v", err)
	}
}
