package config

import (
	"fmt"

	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/cartridge"
	"github.com/mwantia/cartvfs/log"
)

// LogLevel returns the parsed logging level.
func (c *Config) LogLevel() log.LogLevel {
	level, err := log.ParseLevel(c.Logging.Level)
	if err != nil {
		return log.Info
	}
	return level
}

// NewLogger creates the root logger described by the logging section.
func (c *Config) NewLogger(name string) *log.Logger {
	return log.NewLogger(name, c.LogLevel(), c.Logging.File, c.Logging.NoTerminal)
}

// SessionConfig builds the configuration handed to the filesystem's Init.
// The manifest, when present, supplies the cartridge identifier and the save
// permission; an identifier set in the host configuration takes precedence.
func (c *Config) SessionConfig(manifest *cartridge.Manifest) (vfs.Config, error) {
	saveQuota, err := parseByteSize(c.Storage.SaveQuota)
	if err != nil {
		return vfs.Config{}, fmt.Errorf("storage.save_quota: %w", err)
	}
	tempQuota, err := parseByteSize(c.Storage.TempQuota)
	if err != nil {
		return vfs.Config{}, fmt.Errorf("storage.temp_quota: %w", err)
	}

	cfg := vfs.Config{
		CartridgePath: c.Cartridge.Path,
		SaveRootPath:  c.Storage.SaveRoot,
		TempRootPath:  c.Storage.TempRoot,
		SaveEnabled:   c.Cartridge.SaveEnabled,
		SaveQuota:     saveQuota,
		TempQuota:     tempQuota,
		SaveBackend:   c.Storage.SaveBackend,
		SaveOptions:   c.Storage.SaveOptions,
		TempOptions:   c.Storage.TempOptions,
		TempInMemory:  c.Storage.TempInMemory,
		PurgeTemp:     c.Storage.PurgeTemp,
	}

	if manifest != nil {
		manifest.Apply(&cfg)
	}
	if c.Cartridge.ID != "" {
		cfg.CartridgeID = c.Cartridge.ID
	}

	if err := cfg.Validate(); err != nil {
		return vfs.Config{}, err
	}
	return cfg, nil
}
