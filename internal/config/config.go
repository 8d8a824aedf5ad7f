// Package config holds the service settings and loads them with viper.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/cristianadrielbraun/qrforge/internal/renderer"
)

// Config is the complete set of application settings.
type Config struct {
	LogLevel string       `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Server   ServerConfig `mapstructure:"server" yaml:"server" json:"server"`
	Render   RenderConfig `mapstructure:"render" yaml:"render" json:"render"`
	Upload   UploadConfig `mapstructure:"upload" yaml:"upload" json:"upload"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host" json:"host"`
	Port            int           `mapstructure:"port" yaml:"port" json:"port"`
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// RenderConfig contains rendering and export settings.
type RenderConfig struct {
	SettleDelay   time.Duration `mapstructure:"settle_delay" yaml:"settle_delay" json:"settle_delay"`
	MaxResolution int           `mapstructure:"max_resolution" yaml:"max_resolution" json:"max_resolution"`
	DefaultFormat string        `mapstructure:"default_format" yaml:"default_format" json:"default_format"`
}

// UploadConfig limits logo uploads.
type UploadConfig struct {
	MaxBytes     int64    `mapstructure:"max_bytes" yaml:"max_bytes" json:"max_bytes"`
	AllowedTypes []string `mapstructure:"allowed_types" yaml:"allowed_types" json:"allowed_types"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			BaseURL:         "https://qrcreator.link",
			ShutdownTimeout: 10 * time.Second,
		},
		Render: RenderConfig{
			SettleDelay:   500 * time.Millisecond,
			MaxResolution: 4096,
			DefaultFormat: string(renderer.FormatPNG),
		},
		Upload: UploadConfig{
			MaxBytes:     2 << 20,
			AllowedTypes: []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/svg+xml"},
		},
	}
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Validate checks the settings.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if u, err := url.Parse(c.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL))
	}
	if c.Render.SettleDelay < 0 {
		errs = append(errs, fmt.Errorf("render.settle_delay must not be negative"))
	}
	if c.Render.MaxResolution < 1 {
		errs = append(errs, fmt.Errorf("render.max_resolution must be positive, got %d", c.Render.MaxResolution))
	}
	if _, err := renderer.ParseFormat(c.Render.DefaultFormat); err != nil {
		errs = append(errs, fmt.Errorf("render.default_format: %w", err))
	}
	if c.Upload.MaxBytes < 1 {
		errs = append(errs, fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes))
	}
	if len(c.Upload.AllowedTypes) == 0 {
		errs = append(errs, fmt.Errorf("upload.allowed_types must not be empty"))
	}
	return errors.Join(errs...)
}
