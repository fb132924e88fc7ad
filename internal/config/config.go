// Package config loads the outing planner configuration from defaults, an
// optional YAML file and OUTING_* environment variables, and validates it.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration wraps every loading or validation failure.
var ErrConfiguration = errors.New("configuration error")

// Config is the full application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	Server ServerConfig `mapstructure:"server"`
	LLM    LLMConfig    `mapstructure:"llm"`
	Form   FormConfig   `mapstructure:"form"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig configures the HTTP listener. A zero WriteTimeout leaves
// the model call unbounded by the server.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"                validate:"required"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"min=1s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"    validate:"min=1s,max=5m"`
}

// LLMConfig selects the chat-completion provider. The credential is not
// part of the configuration; each user supplies their own per request.
type LLMConfig struct {
	Provider string `mapstructure:"provider"  validate:"required,oneof=openai gemini"`
	Model    string `mapstructure:"model"     validate:"required"`
	BaseURL  string `mapstructure:"base_url"  validate:"omitempty,url"`
	MaxSteps int    `mapstructure:"max_steps" validate:"min=1,max=32"`
}

// FormConfig lists the choices offered on the form.
type FormConfig struct {
	Moods     []string `mapstructure:"moods"      validate:"min=1,dive,required"`
	Genres    []string `mapstructure:"genres"     validate:"min=1,dive,required"`
	TimeSlots []string `mapstructure:"time_slots" validate:"min=1,dive,required"`
}

// Validate checks the struct tags of the whole configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
