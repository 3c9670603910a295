package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrSourceDirMissing indicates the source directory does not exist
	ErrSourceDirMissing = errors.New("source directory does not exist")

	// ErrSpecDirMissing indicates the spec directory does not exist
	ErrSpecDirMissing = errors.New("spec directory does not exist")

	// ErrInvalidJobs indicates a non-positive worker count
	ErrInvalidJobs = errors.New("invalid jobs")

	// ErrEmptyIgnoredAttribute indicates an empty ignored attribute name
	ErrEmptyIgnoredAttribute = errors.New("empty ignored attribute")

	// ErrEmptyLogFile indicates a missing report path
	ErrEmptyLogFile = errors.New("empty log file")
)

// Validate checks that the configuration is complete and that both
// directories exist. Call it after command-line overrides are applied.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateSettings(cfg); err != nil {
		errs = append(errs, err)
	}

	if err := validateDirs(cfg); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

var (
	settingsOnce      sync.Once
	settingsValidator *validator.Validate
)

// getValidator returns the shared validator for Config struct tags.
// Field names in errors are the mapstructure keys.
func getValidator() *validator.Validate {
	settingsOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		settingsValidator = v
	})
	return settingsValidator
}

// validateSettings checks everything that does not touch the filesystem.
func validateSettings(cfg *Config) error {
	err := getValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate settings: %w", err)
	}

	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, settingError(fe))
	}
	return joinErrors(errs)
}

// settingError maps a struct-tag failure to its sentinel.
func settingError(fe validator.FieldError) error {
	switch {
	case fe.StructField() == "Jobs":
		return fmt.Errorf("%w: jobs must be positive, got %v", ErrInvalidJobs, fe.Value())
	case strings.HasPrefix(fe.StructField(), "IgnoredAttributes"):
		return fmt.Errorf("%w: %s is empty", ErrEmptyIgnoredAttribute, fe.Field())
	case fe.StructField() == "LogFile":
		return fmt.Errorf("%w: log-file is required", ErrEmptyLogFile)
	default:
		return fmt.Errorf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

func validateDirs(cfg *Config) error {
	var errs []error

	if !isDir(cfg.SrcDir) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSourceDirMissing, cfg.SrcDir))
	}

	if !isDir(cfg.SpecDir) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrSpecDirMissing, cfg.SpecDir))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// joinErrors combines multiple errors into a single error with clear formatting.
// Nested validation errors are flattened; errors.Is still sees every sentinel.
func joinErrors(errs []error) error {
	var flat validationErrors
	for _, err := range errs {
		var nested validationErrors
		if errors.As(err, &nested) {
			flat = append(flat, nested...)
			continue
		}
		flat = append(flat, err)
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	}
	return flat
}

type validationErrors []error

func (e validationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e validationErrors) Unwrap() []error {
	return e
}
