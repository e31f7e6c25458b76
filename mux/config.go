package mux

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds the dispatch settings shared by a Dispatcher, its HTTP
// Handler and a PrefixRouter.
type Config struct {
	// BasePath is stripped from request paths before lookup.
	BasePath string `yaml:"base_path" envconfig:"BASE_PATH" validate:"omitempty,startswith=/"`
	// Return405 answers requests for unregistered methods with 405. When
	// false, they go to the table's fallback action for the method.
	Return405 bool `yaml:"return_405" envconfig:"RETURN_405" default:"true"`
	// GenerateOptions answers OPTIONS requests with the Allow set of the path.
	GenerateOptions bool `yaml:"generate_options" envconfig:"GENERATE_OPTIONS" default:"true"`
	// OptimizeTree compacts the routing tree of a PrefixRouter before it
	// serves its first request.
	OptimizeTree bool `yaml:"optimize_tree" envconfig:"OPTIMIZE_TREE"`
	// TrimStrings trims surrounding whitespace of text arguments.
	TrimStrings bool `yaml:"trim_strings" envconfig:"TRIM_STRINGS" default:"true"`
}

// DefaultConfig returns the defaults: 405 responses and generated OPTIONS
// answers enabled, text arguments trimmed, no base path.
func DefaultConfig() Config {
	return Config{
		Return405:       true,
		GenerateOptions: true,
		TrimStrings:     true,
	}
}

var configValidator = validator.New()

// Validate checks the configuration values.
func (c Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("mux: invalid config: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML configuration on top of DefaultConfig.
// Unknown keys are rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("mux: decode config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ConfigFromEnv reads the configuration from environment variables named
// PREFIX_BASE_PATH, PREFIX_RETURN_405 and so on.
func ConfigFromEnv(prefix string) (Config, error) {
	c := DefaultConfig()
	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, fmt.Errorf("mux: load config from env: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
