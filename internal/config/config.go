// Package config loads editor settings through Viper from an optional YAML
// file, PREVIEW_EDITOR_ environment variables and command-line flags.
//
// Precedence follows Viper: flags, then environment, then the config file,
// then the defaults registered by SetDefaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"preview-editor/internal/logger"
)

const (
	EnvPrefix  = "PREVIEW_EDITOR"
	ConfigName = "preview-editor"
)

// Keys
const (
	KeyLogLevel             = "log_level"
	KeyLogFormat            = "log_format"
	KeyFrameRate            = "frame_rate"
	KeyFrameWidth           = "frame_width"
	KeyNotificationCapacity = "notification_capacity"
	KeyDropStaleLoads       = "drop_stale_loads"
	KeyWatchSource          = "watch_source"
	KeyWatchDebounce        = "watch_debounce"
	KeyWindowWidth          = "window_width"
	KeyWindowHeight         = "window_height"
	KeyStartDirectory       = "start_directory"
	KeyOpen                 = "open"
)

type Config struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	FrameRate            int     `mapstructure:"frame_rate"`
	FrameWidth           float32 `mapstructure:"frame_width"`
	NotificationCapacity int     `mapstructure:"notification_capacity"`

	DropStaleLoads bool          `mapstructure:"drop_stale_loads"`
	WatchSource    bool          `mapstructure:"watch_source"`
	WatchDebounce  time.Duration `mapstructure:"watch_debounce"`

	WindowWidth    float32 `mapstructure:"window_width"`
	WindowHeight   float32 `mapstructure:"window_height"`
	StartDirectory string  `mapstructure:"start_directory"`

	// Open is a file loaded right after startup; only set from the command line.
	Open string `mapstructure:"open"`
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyFrameRate, 30)
	v.SetDefault(KeyFrameWidth, 300)
	v.SetDefault(KeyNotificationCapacity, 32)
	v.SetDefault(KeyDropStaleLoads, true)
	v.SetDefault(KeyWatchSource, false)
	v.SetDefault(KeyWatchDebounce, 250*time.Millisecond)
	v.SetDefault(KeyWindowWidth, 1000)
	v.SetDefault(KeyWindowHeight, 700)
	v.SetDefault(KeyStartDirectory, "")
	v.SetDefault(KeyOpen, "")
}

// New returns a Viper instance with defaults and environment binding in place.
// file may be empty, in which case preview-editor.yaml is searched for in the
// working directory and a missing file is not an error.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v
}

// Read reads the config file if there is one. An explicitly named file must exist.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

// Load unmarshals and validates the settings held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// ValidationError names the offending key.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s (got %v)", e.Field, e.Message, e.Value)
}

func (c *Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: KeyLogLevel, Value: c.LogLevel, Message: "must be debug, info, warn or error"}
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return &ValidationError{Field: KeyLogFormat, Value: c.LogFormat, Message: "must be console or json"}
	}
	if c.FrameRate < 1 || c.FrameRate > 240 {
		return &ValidationError{Field: KeyFrameRate, Value: c.FrameRate, Message: "must be between 1 and 240"}
	}
	if c.FrameWidth < 16 {
		return &ValidationError{Field: KeyFrameWidth, Value: c.FrameWidth, Message: "must be at least 16"}
	}
	if c.NotificationCapacity < 1 {
		return &ValidationError{Field: KeyNotificationCapacity, Value: c.NotificationCapacity, Message: "must be positive"}
	}
	if c.WatchDebounce < 0 {
		return &ValidationError{Field: KeyWatchDebounce, Value: c.WatchDebounce, Message: "must not be negative"}
	}
	if c.WindowWidth < 200 || c.WindowHeight < 150 {
		return &ValidationError{Field: KeyWindowWidth, Value: fmt.Sprintf("%vx%v", c.WindowWidth, c.WindowHeight), Message: "window must be at least 200x150"}
	}
	return nil
}

// FrameInterval is the time between two frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FrameRate)
}

// Level returns the parsed log level.
func (c *Config) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}
