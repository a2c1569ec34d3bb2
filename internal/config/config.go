// Package config loads and validates converter settings.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/sleroq/wordpress-to-yaml/internal/domain/wordpress"
)

// EnvPrefix prefixes every environment variable the converter reads.
const EnvPrefix = "WP2YAML_"

type Config struct {
	Input               string   `yaml:"input" validate:"required"`
	Output              string   `yaml:"output" validate:"required"`
	PostTypes           []string `yaml:"post_types" validate:"dive,required"`
	ExcludeCustomFields []string `yaml:"exclude_custom_fields" validate:"dive,required"`
	ConvertToMarkdown   bool     `yaml:"convert_to_markdown"`
	NotesDir            string   `yaml:"notes_dir"`
	FilenameEscaping    string   `yaml:"filename_escaping" validate:"oneof=auto posix windows"`
	LogLevel            string   `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat           string   `yaml:"log_format" validate:"oneof=console json pretty"`
	Progress            bool     `yaml:"progress"`
}

func Default() Config {
	return Config{
		FilenameEscaping: "auto",
		LogLevel:         "warn",
		LogFormat:        "console",
		Progress:         true,
	}
}

// ValidationError names the setting that failed and why.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Reason)
}

// Load returns the defaults overlaid with environment variables and then
// with the config file at path, if any. lookup is usually os.LookupEnv.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()
	if lookup != nil {
		if err := cfg.ApplyEnv(lookup); err != nil {
			return Config{}, err
		}
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}
	return cfg, nil
}

// MergeFile overlays the keys present in the YAML file at path. Keys the
// file does not mention keep their current values.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays WP2YAML_* variables. Lists are comma separated.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = SplitList(v)
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return &ValidationError{Field: EnvPrefix + key, Reason: fmt.Sprintf("must be a boolean, got %q", v)}
		}
		*dst = b
		return nil
	}

	str("INPUT", &c.Input)
	str("OUTPUT", &c.Output)
	list("POST_TYPES", &c.PostTypes)
	list("EXCLUDE_CUSTOM_FIELDS", &c.ExcludeCustomFields)
	str("NOTES_DIR", &c.NotesDir)
	str("FILENAME_ESCAPING", &c.FilenameEscaping)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	if err := boolean("CONVERT_TO_MARKDOWN", &c.ConvertToMarkdown); err != nil {
		return err
	}
	return boolean("PROGRESS", &c.Progress)
}

// SplitList splits a comma separated value, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field constraints and that every exclusion pattern
// compiles.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			return fieldError(errs[0])
		}
		return err
	}
	if _, err := wordpress.NewFieldFilter(c.ExcludeCustomFields); err != nil {
		return &ValidationError{Field: "exclude_custom_fields", Reason: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ValidationError {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "is required"}
	case "oneof":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %q check", fe.Tag())}
	}
}
