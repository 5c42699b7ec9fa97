package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	vfs "github.com/mwantia/cartvfs"
	"github.com/mwantia/cartvfs/cartridge"
	"github.com/mwantia/cartvfs/log"
	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoad_DefaultConfig(t *testing.T) {
	configPath := writeConfig(t, `
cartridge:
  path: "/games/snake"

storage:
  save_root: "/var/lib/cartvfs/save"
  temp_root: "/tmp/cartvfs"
`)

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Storage.SaveQuota != "16 MiB" {
		t.Errorf("Expected default save quota '16 MiB', got %q", cfg.Storage.SaveQuota)
	}
	if cfg.Storage.TempQuota != "64 MiB" {
		t.Errorf("Expected default temp quota '64 MiB', got %q", cfg.Storage.TempQuota)
	}
	if cfg.Storage.SaveBackend != "direct" {
		t.Errorf("Expected default save backend 'direct', got %q", cfg.Storage.SaveBackend)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	nonExistentPath := filepath.Join(t.TempDir(), "nonexistent.yaml")

	t.Setenv("CARTVFS_CARTRIDGE_PATH", "/games/snake")
	t.Setenv("CARTVFS_STORAGE_SAVE_ROOT", "/save")
	t.Setenv("CARTVFS_STORAGE_TEMP_IN_MEMORY", "true")

	cfg, err := Load(nonExistentPath, nil)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	if cfg.Cartridge.Path != "/games/snake" {
		t.Errorf("Expected cartridge path from env var, got %q", cfg.Cartridge.Path)
	}
	if !cfg.Storage.TempInMemory {
		t.Error("Expected temp_in_memory from env var")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "storage: [unterminated")

	if _, err := Load(configPath, nil); err == nil {
		t.Fatal("Expected error for invalid YAML")
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("CARTVFS_LOGGING_LEVEL", "debug")
	t.Setenv("CARTVFS_STORAGE_SAVE_QUOTA", "1MiB")

	configPath := writeConfig(t, `
logging:
  level: "ERROR"

cartridge:
  path: "/games/snake"

storage:
  save_root: "/save"
  temp_root: "/temp"
  save_quota: "4MiB"
`)

	cfg, err := Load(configPath, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected level 'DEBUG' from env var, got %q", cfg.Logging.Level)
	}
	if cfg.LogLevel() != log.Debug {
		t.Errorf("Expected parsed level Debug, got %s", cfg.LogLevel())
	}
	if cfg.Storage.SaveQuota != "1MiB" {
		t.Errorf("Expected save quota '1MiB' from env var, got %q", cfg.Storage.SaveQuota)
	}
}

func TestLoad_Flags(t *testing.T) {
	flags := pflag.NewFlagSet("cartvfs", pflag.ContinueOnError)
	RegisterFlags(flags)

	if err := flags.Parse([]string{
		"--cartridge", "/games/tetris",
		"--save-root", "/flag/save",
		"--save-backend", "sqlite",
		"--temp-in-memory",
	}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	configPath := writeConfig(t, `
cartridge:
  path: "/games/snake"

storage:
  save_root: "/save"
`)

	cfg, err := Load(configPath, flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Cartridge.Path != "/games/tetris" {
		t.Errorf("Expected cartridge path from flag, got %q", cfg.Cartridge.Path)
	}
	if cfg.Storage.SaveRoot != "/flag/save" {
		t.Errorf("Expected save root from flag, got %q", cfg.Storage.SaveRoot)
	}
	if cfg.Storage.SaveBackend != "sqlite" {
		t.Errorf("Expected save backend from flag, got %q", cfg.Storage.SaveBackend)
	}
	if !cfg.Storage.TempInMemory {
		t.Error("Expected temp_in_memory from flag")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := GetDefaultConfig()
		cfg.Cartridge.Path = "/games/snake"
		cfg.Storage.SaveRoot = "/save"
		cfg.Storage.TempRoot = "/temp"
		return cfg
	}

	if err := Validate(valid()); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	tests := map[string]func(*Config){
		"missing cartridge": func(c *Config) { c.Cartridge.Path = "" },
		"missing save root": func(c *Config) { c.Storage.SaveRoot = "" },
		"missing temp root": func(c *Config) { c.Storage.TempRoot = "" },
		"bad cartridge id":  func(c *Config) { c.Cartridge.ID = "../other" },
		"bad level":         func(c *Config) { c.Logging.Level = "VERBOSE" },
		"bad quota":         func(c *Config) { c.Storage.SaveQuota = "lots" },
		"zero quota":        func(c *Config) { c.Storage.TempQuota = "0B" },
		"bad backend":       func(c *Config) { c.Storage.SaveBackend = "postgres" },
		"shared roots":      func(c *Config) { c.Storage.TempRoot = c.Storage.SaveRoot },
		"nested temp root":  func(c *Config) { c.Storage.TempRoot = "/save/scratch" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Error("Expected validation error")
			}
		})
	}

	cfg := valid()
	cfg.Storage.TempRoot = ""
	cfg.Storage.TempInMemory = true
	if err := Validate(cfg); err != nil {
		t.Errorf("Expected in-memory temp without root to validate, got: %v", err)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Cartridge.Path = "/games/snake"
	cfg.Storage.SaveRoot = "/save"
	cfg.Storage.TempRoot = "/temp"
	cfg.Storage.SaveQuota = "2KiB"

	if _, err := cfg.SessionConfig(nil); err == nil {
		t.Fatal("Expected error without manifest or cartridge id")
	}

	manifest := &cartridge.Manifest{
		ID:          "snake",
		Entry:       "main.nut",
		Permissions: cartridge.Permissions{Save: true},
	}

	session, err := cfg.SessionConfig(manifest)
	if err != nil {
		t.Fatalf("SessionConfig failed: %v", err)
	}
	if session.CartridgeID != "snake" {
		t.Errorf("Expected cartridge id 'snake', got %q", session.CartridgeID)
	}
	if !session.SaveEnabled {
		t.Error("Expected save permission from manifest")
	}
	if session.SaveQuota != 2048 {
		t.Errorf("Expected save quota 2048, got %d", session.SaveQuota)
	}
	if session.TempQuota != vfs.DefaultTempQuota {
		t.Errorf("Expected default temp quota, got %d", session.TempQuota)
	}

	cfg.Cartridge.ID = "snake-dev"
	session, err = cfg.SessionConfig(manifest)
	if err != nil {
		t.Fatalf("SessionConfig failed: %v", err)
	}
	if session.CartridgeID != "snake-dev" {
		t.Errorf("Expected overridden cartridge id, got %q", session.CartridgeID)
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")

	path := GetDefaultConfigPath()
	if !strings.HasPrefix(path, filepath.Join("/xdg", "cartvfs")) {
		t.Errorf("Expected path below XDG_CONFIG_HOME, got %q", path)
	}
}
