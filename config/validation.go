package config

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
	"github.com/mwantia/cartvfs/log"
	"github.com/mwantia/cartvfs/mount"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("cartid", func(fl validator.FieldLevel) bool {
		return mount.ValidateCartridgeID(fl.Field().String()) == nil
	})
	validate.RegisterValidation("bytesize", func(fl validator.FieldLevel) bool {
		_, err := parseByteSize(fl.Field().String())
		return err == nil
	})
	validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		_, err := log.ParseLevel(fl.Field().String())
		return err == nil
	})
}

// Validate validates the configuration using struct tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs validation beyond struct tags.
func validateCustomRules(cfg *Config) error {
	if cfg.Storage.TempInMemory {
		return nil
	}

	overlap, err := mount.RootsOverlap(cfg.Storage.SaveRoot, cfg.Storage.TempRoot)
	if err != nil {
		return err
	}
	if overlap {
		return fmt.Errorf("storage: save_root '%s' and temp_root '%s' must not overlap",
			cfg.Storage.SaveRoot, cfg.Storage.TempRoot)
	}
	return nil
}

// parseByteSize parses a positive human readable size such as "16MiB".
func parseByteSize(s string) (int64, error) {
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if size == 0 || size > math.MaxInt64 {
		return 0, fmt.Errorf("size %q out of range", s)
	}
	return int64(size), nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrs) > 0 {
			e := validationErrs[0]
			return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
				e.Namespace(), e.Tag(), e.Value())
		}
	}
	return err
}
