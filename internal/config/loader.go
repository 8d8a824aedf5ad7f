package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "qrforge"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "QRFORGE"
)

// Loader reads settings from defaults, a yaml file, the environment and any
// bound flags, in increasing priority.
type Loader struct {
	v *viper.Viper
}

// NewLoader wraps v, or a fresh viper instance when v is nil.
func NewLoader(v *viper.Viper) *Loader {
	if v == nil {
		v = viper.New()
	}
	return &Loader{v: v}
}

// Viper returns the underlying instance so flags can be bound to it.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// Load searches the standard locations for qrforge.yaml, or reads
// configFile when it is set.
func (l *Loader) Load(configFile string) (*Config, error) {
	l.setupEnvironmentVariables()
	l.setDefaults()

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", configFile)
		}
		l.v.SetConfigFile(configFile)
	} else {
		l.v.SetConfigName(ConfigFileName)
		l.v.SetConfigType("yaml")
		l.addConfigPaths()
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// no file: defaults and environment only
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// ConfigFileUsed returns the path of the file read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) addConfigPaths() {
	l.v.AddConfigPath(".")
	if configDir, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok {
		l.v.AddConfigPath(filepath.Join(configDir, "qrforge"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "qrforge"))
	}
	l.v.AddConfigPath("/etc/qrforge")
}

func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	// PaaS hosts hand the port over as plain PORT
	_ = l.v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}

func (l *Loader) setDefaults() {
	d := DefaultConfig()

	l.v.SetDefault("log_level", d.LogLevel)

	l.v.SetDefault("server.host", d.Server.Host)
	l.v.SetDefault("server.port", d.Server.Port)
	l.v.SetDefault("server.base_url", d.Server.BaseURL)
	l.v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)

	l.v.SetDefault("render.settle_delay", d.Render.SettleDelay)
	l.v.SetDefault("render.max_resolution", d.Render.MaxResolution)
	l.v.SetDefault("render.default_format", d.Render.DefaultFormat)

	l.v.SetDefault("upload.max_bytes", d.Upload.MaxBytes)
	l.v.SetDefault("upload.allowed_types", d.Upload.AllowedTypes)
}
