// Package config loads the host configuration of the cartvfs command.
//
// Configuration is read from a YAML file, overridden by CARTVFS_* environment
// variables and finally by command line flags bound through pflag.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the host configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging"`
	Cartridge CartridgeConfig `mapstructure:"cartridge"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL
	Level string `mapstructure:"level" validate:"loglevel"`
	// File enables rotated file logging when set
	File       string `mapstructure:"file"`
	NoTerminal bool   `mapstructure:"no_terminal"`
}

type CartridgeConfig struct {
	// Path is the cartridge directory, .zip or .cart file
	Path string `mapstructure:"path" validate:"required"`
	// ID overrides the identifier from the cartridge manifest
	ID string `mapstructure:"id" validate:"omitempty,cartid"`
	// SaveEnabled grants save access to cartridges without a manifest
	SaveEnabled bool `mapstructure:"save_enabled"`
}

type StorageConfig struct {
	SaveRoot string `mapstructure:"save_root" validate:"required"`
	TempRoot string `mapstructure:"temp_root" validate:"required_unless=TempInMemory true"`

	// Quotas accept human readable sizes such as "16MiB"
	SaveQuota string `mapstructure:"save_quota" validate:"required,bytesize"`
	TempQuota string `mapstructure:"temp_quota" validate:"required,bytesize"`

	SaveBackend  string         `mapstructure:"save_backend" validate:"oneof=direct sqlite"`
	SaveOptions  map[string]any `mapstructure:"save_options"`
	TempOptions  map[string]any `mapstructure:"temp_options"`
	TempInMemory bool           `mapstructure:"temp_in_memory"`
	PurgeTemp    bool           `mapstructure:"purge_temp"`
}

// flagBindings maps command line flags to configuration keys.
var flagBindings = map[string]string{
	"log-level":      "logging.level",
	"log-file":       "logging.file",
	"cartridge":      "cartridge.path",
	"cartridge-id":   "cartridge.id",
	"save-root":      "storage.save_root",
	"temp-root":      "storage.temp_root",
	"save-backend":   "storage.save_backend",
	"temp-in-memory": "storage.temp_in_memory",
}

// knownKeys are registered with viper so environment variables are honoured
// even when the config file does not mention them.
var knownKeys = map[string]any{
	"logging.level":          "",
	"logging.file":           "",
	"logging.no_terminal":    false,
	"cartridge.path":         "",
	"cartridge.id":           "",
	"cartridge.save_enabled": false,
	"storage.save_root":      "",
	"storage.temp_root":      "",
	"storage.save_quota":     "",
	"storage.temp_quota":     "",
	"storage.save_backend":   "",
	"storage.temp_in_memory": false,
	"storage.purge_temp":     false,
}

// RegisterFlags adds the flags understood by Load to flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "", "log level (DEBUG, INFO, WARN, ERROR)")
	flags.String("log-file", "", "write logs to this file")
	flags.String("cartridge", "", "cartridge directory or archive")
	flags.String("cartridge-id", "", "override the cartridge identifier")
	flags.String("save-root", "", "root directory of all save namespaces")
	flags.String("temp-root", "", "root directory of all temp namespaces")
	flags.String("save-backend", "", "save store (direct, sqlite)")
	flags.Bool("temp-in-memory", false, "keep the temp namespace in memory")
}

// Load reads the configuration file at configPath, applies environment and
// flag overrides, fills defaults and validates the result.
// An empty configPath uses the default location; a missing file is not an
// error. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if err := setupViper(v, configPath, flags); err != nil {
		return nil, err
	}

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables, flags and the config file.
// Example: CARTVFS_STORAGE_SAVE_ROOT=/var/lib/cartvfs/save
func setupViper(v *viper.Viper, configPath string, flags *pflag.FlagSet) error {
	v.SetEnvPrefix("CARTVFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, zero := range knownKeys {
		v.SetDefault(key, zero)
	}

	if flags != nil {
		for name, key := range flagBindings {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("failed to bind flag %s: %w", name, err)
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	return nil
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/cartvfs, ~/.config/cartvfs or the
// current directory as last resort.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cartvfs")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "cartvfs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
