// Package config loads takeoutdate settings from defaults, an optional config
// file and TAKEOUTDATE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lepinkainen/takeoutdate/media"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. TAKEOUTDATE_WORKERS.
const EnvPrefix = "TAKEOUTDATE"

type Config struct {
	ImageExtensions []string `mapstructure:"image_extensions"`
	VideoExtensions []string `mapstructure:"video_extensions"`
	// TagExtensions are the formats that can hold an embedded capture tag.
	TagExtensions []string `mapstructure:"tag_extensions"`

	// Workers is the number of files processed at once; 0 picks a default.
	Workers int `mapstructure:"workers"`
	// Timezone is used for embedded tag values, which carry no offset.
	Timezone     string `mapstructure:"timezone"`
	ExiftoolPath string `mapstructure:"exiftool_path"`
	KeepBackup   bool   `mapstructure:"keep_backup"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Error is a configuration value that failed validation.
type Error struct {
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid config %s: %v", e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func setDefaults(v *viper.Viper) {
	v.SetDefault("image_extensions", media.DefaultImageExtensions)
	v.SetDefault("video_extensions", media.DefaultVideoExtensions)
	v.SetDefault("tag_extensions", media.DefaultTagExtensions)
	v.SetDefault("workers", 0)
	v.SetDefault("timezone", "UTC")
	v.SetDefault("exiftool_path", "")
	v.SetDefault("keep_backup", false)
}

// Load reads the configuration. An empty path searches for takeoutdate.yaml
// in the working directory and in ~/.config/takeoutdate; not finding one is
// fine. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("takeoutdate")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "takeoutdate"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that Load cannot type-check.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return &Error{Key: "workers", Err: fmt.Errorf("must not be negative, got %d", c.Workers)}
	}
	if len(c.ImageExtensions) == 0 && len(c.VideoExtensions) == 0 {
		return &Error{Key: "image_extensions", Err: errors.New("no media extensions configured")}
	}
	if _, err := c.Location(); err != nil {
		return &Error{Key: "timezone", Err: err}
	}
	return nil
}

// Location returns the configured time zone. An empty value means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Extensions returns the configured media extension sets.
func (c *Config) Extensions() media.Extensions {
	return media.NewExtensions(c.ImageExtensions, c.VideoExtensions, c.TagExtensions)
}
