package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeJWT      = "jwt"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Auth   AuthConfig        `yaml:"auth"`
	MCP    MCPConfig         `yaml:"mcp"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.MCP.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how requests are attributed to a user:
//   - "disabled" (default): no authentication; every request runs as
//     DevUserID. Suitable for local dev only.
//   - "jwt": HS256 bearer tokens; Secret must be non-empty.
type AuthConfig struct {
	Mode      string `yaml:"mode"`
	Secret    string `yaml:"secret"`
	DevUserID int64  `yaml:"dev_user_id"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeJWT)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeJWT && c.Secret == "" {
		return fmt.Errorf("auth: mode is %q but secret is empty", AuthModeJWT)
	}
	if c.Mode == AuthModeDisabled && c.DevUserID < 1 {
		return fmt.Errorf("auth: mode is %q but dev_user_id is not set", AuthModeDisabled)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeJWT
}

// MCPConfig holds MCP server configuration.
// All MCP tool calls run as UserID.
type MCPConfig struct {
	UserID int64 `yaml:"user_id"`
}

// Validate validates the MCP configuration.
func (c *MCPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.UserID, validation.Required, validation.Min(1)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./laguz.db",
		},
		Auth: AuthConfig{
			Mode:      AuthModeDisabled,
			DevUserID: 1,
		},
		MCP: MCPConfig{
			UserID: 1,
		},
	}
}
