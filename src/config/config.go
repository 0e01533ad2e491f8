package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Environment represents the runtime environment
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "EDGELIGHT"

// Config holds the application configuration
type Config struct {
	// Environment
	Environment Environment `mapstructure:"ENVIRONMENT"`

	// Logging
	LogLevel LogLevel `mapstructure:"LOG_LEVEL"`
	LogMode  string   `mapstructure:"LOG_MODE"`

	// Overlay
	HotkeysEnabled   bool   `mapstructure:"HOTKEYS_ENABLED"`
	ShowControlPanel bool   `mapstructure:"SHOW_CONTROL_PANEL"`
	DisplayBackend   string `mapstructure:"DISPLAY_BACKEND"`
	TPS              int    `mapstructure:"TPS"`
}

// Load reads configuration from environment variables and the .env file in the
// working directory
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads configuration from path (a dotenv file, optional) and the environment
func LoadFile(path string) (*Config, error) {
	v := newViper(path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// no .env file, environment variables only
	}

	return decode(v)
}

// Watch reloads path whenever it changes and passes each valid configuration to
// onChange. Invalid edits go to onError and are otherwise ignored. The file must exist.
func Watch(path string, onChange func(*Config), onError func(error)) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch config: %w", err)
	}

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	setDefaults(v)

	// Environment variables override .env file
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// no default, so AutomaticEnv alone would not surface it to Unmarshal
	_ = v.BindEnv("LOG_LEVEL")
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = cfg.defaultLogLevel()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Environment:      Production,
		LogLevel:         LogLevelInfo,
		LogMode:          "cli",
		HotkeysEnabled:   true,
		ShowControlPanel: true,
		DisplayBackend:   "auto",
		TPS:              60,
	}
}

// viper reports a missing explicit config file as a plain fs error
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// setDefaults sets default configuration values. LOG_LEVEL has none; it follows
// the environment unless set explicitly.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("ENVIRONMENT", string(d.Environment))
	v.SetDefault("LOG_MODE", d.LogMode)
	v.SetDefault("HOTKEYS_ENABLED", d.HotkeysEnabled)
	v.SetDefault("SHOW_CONTROL_PANEL", d.ShowControlPanel)
	v.SetDefault("DISPLAY_BACKEND", d.DisplayBackend)
	v.SetDefault("TPS", d.TPS)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Environment {
	case Development, Production, Test:
	default:
		return fmt.Errorf("invalid environment: %s (must be development, production, or test)", c.Environment)
	}

	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	switch c.LogMode {
	case "file", "cli", "journal":
	default:
		return fmt.Errorf("invalid log mode: %s (must be file, cli, or journal)", c.LogMode)
	}

	switch c.DisplayBackend {
	case "auto", "screenshot", "hyprland":
	default:
		return fmt.Errorf("invalid display backend: %s (must be auto, screenshot, or hyprland)", c.DisplayBackend)
	}

	if c.TPS < 1 || c.TPS > 240 {
		return fmt.Errorf("invalid tps: %d (must be between 1 and 240)", c.TPS)
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// defaultLogLevel is debug in development and info everywhere else.
func (c *Config) defaultLogLevel() LogLevel {
	if c.IsDevelopment() {
		return LogLevelDebug
	}
	return LogLevelInfo
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment=%s, LogLevel=%s, LogMode=%s, Hotkeys=%t, Panel=%t, Backend=%s, TPS=%d}",
		c.Environment, c.LogLevel, c.LogMode, c.HotkeysEnabled, c.ShowControlPanel, c.DisplayBackend, c.TPS)
}
