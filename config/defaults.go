package config

import (
	"strings"

	"github.com/dustin/go-humanize"
	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/mount"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
// Explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyStorageDefaults(&cfg.Storage)
}

func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	cfg.Level = strings.ToUpper(cfg.Level)
}

func applyStorageDefaults(cfg *StorageConfig) {
	if cfg.SaveQuota == "" {
		cfg.SaveQuota = humanize.IBytes(uint64(vfs.DefaultSaveQuota))
	}
	if cfg.TempQuota == "" {
		cfg.TempQuota = humanize.IBytes(uint64(vfs.DefaultTempQuota))
	}
	if cfg.SaveBackend == "" {
		cfg.SaveBackend = mount.StorageDirect
	}
	if cfg.SaveOptions == nil {
		cfg.SaveOptions = make(map[string]any)
	}
	if cfg.TempOptions == nil {
		cfg.TempOptions = make(map[string]any)
	}
}

// GetDefaultConfig returns a configuration with all defaults applied.
// Cartridge and storage paths are left empty and must be provided.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
