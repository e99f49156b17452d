package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	bberrors "brewboxes/internal/errors"
)

const EnvPrefix = "BREWBOXES"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config is the root configuration of a brewboxes process.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Image  ImageConfig  `mapstructure:"image" validate:"required"`
	Engine EngineConfig `mapstructure:"engine" validate:"required"`
	Log    LogConfig    `mapstructure:"log" validate:"required"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Listen         string   `mapstructure:"listen" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ImageConfig controls how desktop images and containers are named and wired.
type ImageConfig struct {
	Registry    string `mapstructure:"registry" validate:"required"`
	NamePrefix  string `mapstructure:"name_prefix" validate:"required"`
	WebPort     int    `mapstructure:"web_port" validate:"min=1,max=65535"`
	ControlPort int    `mapstructure:"control_port" validate:"min=1,max=65535"`
}

// EngineConfig controls how container engine binaries are found and driven.
type EngineConfig struct {
	SearchPaths []string `mapstructure:"search_paths"`
	PTY         bool     `mapstructure:"pty"`
}

// LogConfig configures the process-wide logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", ":3001")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("image.registry", "lscr.io/linuxserver/webtop")
	v.SetDefault("image.name_prefix", "brewboxes")
	v.SetDefault("image.web_port", 3000)
	v.SetDefault("image.control_port", 8082)
	v.SetDefault("engine.search_paths", []string{"/usr/local/bin", "/usr/bin", "/bin", "/opt/homebrew/bin"})
	v.SetDefault("engine.pty", true)
	v.SetDefault("log.level", "info")
}

// Load reads the optional YAML file at filePath, applies BREWBOXES_* environment
// overrides and validates the result.
func Load(filePath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if filePath != "" {
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			return nil, bberrors.NewConfigError(
				fmt.Sprintf("config file not found: %s", filePath),
				"", "Pass an existing YAML file to --config or omit the flag", err)
		}

		v.SetConfigFile(filePath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, bberrors.NewConfigError("failed to read config file", "", "Check the YAML syntax", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, bberrors.NewConfigError("failed to parse config file - malformed YAML", "", "", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, bberrors.NewConfigError("invalid configuration", "", "", formatValidationError(err))
	}

	return &cfg, nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validation failed: %w", err)
	}

	var errorMessages []string
	for _, e := range validationErrors {
		errorMessages = append(errorMessages, formatFieldError(e))
	}

	if len(errorMessages) == 1 {
		return fmt.Errorf("validation error: %s", errorMessages[0])
	}

	var b strings.Builder
	b.WriteString("validation errors:\n")
	for _, msg := range errorMessages {
		fmt.Fprintf(&b, "  - %s\n", msg)
	}
	return fmt.Errorf("%s", b.String())
}

// formatFieldError formats a single validation error into a user-friendly message.
func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required but missing", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "min":
		return fmt.Sprintf("field '%s' must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("field '%s' must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("field '%s' failed validation (%s)", field, e.Tag())
	}
}
