package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/pinboard/internal/token"
)

// Config represents the application configuration.
type Config struct {
	App        ApplicationConfig `yaml:"app"`
	SQLite     SQLiteConfig      `yaml:"sqlite"`
	Auth       AuthConfig        `yaml:"auth"`
	Token      TokenConfig       `yaml:"token"`
	Migrations MigrationsConfig  `yaml:"migrations"`
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
	return c.Token.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
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

// AuthConfig holds the application-level shared secret. Every request must
// present it in the x-app-key header; it is distinct from per-tenant user
// tokens, which the server mints and never verifies beyond possession.
type AuthConfig struct {
	AppKey string `yaml:"app_key"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AppKey, validation.Required),
	)
}

// TokenConfig controls the tenant token generator. Length must stay within
// the 6..32 range that clients accept as a valid token.
type TokenConfig struct {
	Length      int    `yaml:"length"`
	Alphabet    string `yaml:"alphabet"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// Validate validates the token configuration.
func (c *TokenConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Length, validation.Required, validation.Min(6), validation.Max(32)),
		validation.Field(&c.Alphabet, validation.Required),
		validation.Field(&c.MaxAttempts, validation.Required, validation.Min(1)),
	)
}

// Generator builds a token generator from the configuration.
func (c *TokenConfig) Generator() *token.Generator {
	return &token.Generator{
		Alphabet:    c.Alphabet,
		Length:      c.Length,
		MaxAttempts: c.MaxAttempts,
	}
}

// MigrationsConfig points at the directory of ordered .sql files. An empty
// dir disables file-based migrations beyond the bootstrap schema.
type MigrationsConfig struct {
	Dir string `yaml:"dir"`
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 3001,
			},
		},
		SQLite: SQLiteConfig{
			Path: "./pinboard.db",
		},
		Token: TokenConfig{
			Length:      12,
			Alphabet:    token.DefaultAlphabet,
			MaxAttempts: token.DefaultMaxAttempts,
		},
		Migrations: MigrationsConfig{
			Dir: "migrations",
		},
	}
}
