package vfs

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mwantia/cartvfs/mount"
)

const (
	DefaultSaveQuota int64 = 16 << 20 // 16 MiB
	DefaultTempQuota int64 = 64 << 20 // 64 MiB
)

// Config is the session configuration handed to Init. It is copied on
// Init and cannot be changed afterwards.
type Config struct {
	// Directory, .zip or .cart file holding the cartridge content
	CartridgePath string `mapstructure:"cartridge_path" validate:"required"`
	// Unique cartridge identifier scoping the save and temp roots
	CartridgeID string `mapstructure:"cartridge_id" validate:"required,cartid"`

	SaveRootPath string `mapstructure:"save_root" validate:"required"`
	TempRootPath string `mapstructure:"temp_root" validate:"required_unless=TempInMemory true"`

	// Permission declared by the cartridge manifest
	SaveEnabled bool `mapstructure:"save_enabled"`

	SaveQuota int64 `mapstructure:"save_quota" validate:"gt=0"`
	TempQuota int64 `mapstructure:"temp_quota" validate:"gt=0"`

	SaveBackend  string         `mapstructure:"save_backend" validate:"omitempty,oneof=direct sqlite"`
	SaveOptions  map[string]any `mapstructure:"save_options"`
	TempOptions  map[string]any `mapstructure:"temp_options"`
	TempInMemory bool           `mapstructure:"temp_in_memory"`
	PurgeTemp    bool           `mapstructure:"purge_temp"`
}

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("cartid", func(fl validator.FieldLevel) bool {
		return mount.ValidateCartridgeID(fl.Field().String()) == nil
	})
}

// ApplyDefaults fills unset quota limits.
func (c *Config) ApplyDefaults() {
	if c.SaveQuota == 0 {
		c.SaveQuota = DefaultSaveQuota
	}
	if c.TempQuota == 0 {
		c.TempQuota = DefaultTempQuota
	}
	if c.SaveBackend == "" {
		c.SaveBackend = mount.StorageDirect
	}
}

var errOverlappingRoots = errors.New("save_root and temp_root must not overlap")

// Validate checks the configuration using its struct tags and rejects
// save and temp roots that share a directory tree.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if c.TempInMemory {
		return nil
	}
	overlap, err := mount.RootsOverlap(c.SaveRootPath, c.TempRootPath)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("%w: '%s' and '%s'", errOverlappingRoots, c.SaveRootPath, c.TempRootPath)
	}
	return nil
}

// clone returns a deep copy so the caller cannot alter a running session.
func (c Config) clone() Config {
	c.SaveOptions = cloneOptions(c.SaveOptions)
	c.TempOptions = cloneOptions(c.TempOptions)
	return c
}

func cloneOptions(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		// Return the first validation error with context
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
