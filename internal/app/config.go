package app

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
	defaultOutput    = "json"
	defaultListen    = ":8080"
	defaultDebounce  = 200 * time.Millisecond
)

// validate is a singleton validator instance.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("listen_addr", isListenAddr); err != nil {
		panic(fmt.Sprintf("registering listen_addr validation: %v", err))
	}
	return v
}

// isListenAddr accepts TCP listen addresses: an optional host or bracketed
// IPv6 literal and a numeric port, 0 included.
func isListenAddr(fl validator.FieldLevel) bool {
	_, port, err := net.SplitHostPort(fl.Field().String())
	if err != nil {
		return false
	}
	_, err = strconv.ParseUint(port, 10, 16)
	return err == nil
}

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// SheetPaths are .hcl files or directories searched recursively.
	SheetPaths []string `mapstructure:"sheets" validate:"required,min=1,dive,required"`
	// ValuesFile is an optional YAML document of initial values.
	ValuesFile string `mapstructure:"values" validate:"omitempty,file"`
	// Assignments are name=value overrides applied after the values file.
	Assignments []string `mapstructure:"set"`

	LogLevel  string `mapstructure:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=text json"`

	// Output is the eval format, json or hcl.
	Output string `mapstructure:"output" validate:"omitempty,oneof=json hcl"`

	Listen   string        `mapstructure:"listen" validate:"omitempty,listen_addr"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce" validate:"gte=0"`

	// FeedURL is an optional socket.io endpoint streaming assignments.
	FeedURL       string `mapstructure:"feed_url" validate:"omitempty,url"`
	FeedNamespace string `mapstructure:"feed_namespace"`
	FeedEvent     string `mapstructure:"feed_event"`
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, formatValidationError(err)
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = defaultLogFormat
	}
	if cfg.Output == "" {
		cfg.Output = defaultOutput
	}
	if cfg.Listen == "" {
		cfg.Listen = defaultListen
	}
	if cfg.Debounce == 0 {
		cfg.Debounce = defaultDebounce
	}
	return &cfg, nil
}

// formatValidationError reports the first failed field in a readable form.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, e.Param())
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s], got %q", field, e.Param(), e.Value())
		case "file":
			return fmt.Errorf("%s: file %q does not exist", field, e.Value())
		case "url":
			return fmt.Errorf("%s: %q is not a valid URL", field, e.Value())
		case "listen_addr":
			return fmt.Errorf("%s: %q is not a valid host:port address", field, e.Value())
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
