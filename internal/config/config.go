// Package config loads fygallery settings from defaults, an optional YAML
// file, FYGALLERY_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// AppName is used for the config directory and the default database location.
	AppName = "fygallery"

	// DefaultInterval is how long the slideshow shows each image.
	DefaultInterval = 10 * time.Second

	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config holds all application configuration
type Config struct {
	Store     StoreConfig     `mapstructure:"store"`
	Slideshow SlideshowConfig `mapstructure:"slideshow"`
	Gallery   GalleryConfig   `mapstructure:"gallery"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// StoreConfig selects the storage engine and its data file.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "bolt"
	Path   string `mapstructure:"path"`   // Empty means the default file in the user config dir
}

// SlideshowConfig controls the slideshow window.
type SlideshowConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Shuffle  bool          `mapstructure:"shuffle"`
}

// GalleryConfig controls the main gallery window.
type GalleryConfig struct {
	Thumbnails bool     `mapstructure:"thumbnails"`
	Extensions []string `mapstructure:"extensions"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
		},
		Slideshow: SlideshowConfig{
			Interval: DefaultInterval,
		},
		Gallery: GalleryConfig{
			Thumbnails: true,
			Extensions: []string{".png", ".jpg", ".jpeg", ".bmp", ".gif"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the per-user directory fygallery keeps its files in.
func Dir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration. configFile may be empty, in which case
// config.yaml is looked up in the user config dir and the working directory.
// flags may be nil; when set, flags registered by AddFlags that were changed
// on the command line override file and environment values.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FYGALLERY")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults apply
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverBolt:
	default:
		return fmt.Errorf("unknown store driver %q (want %q or %q)", c.Store.Driver, DriverSQLite, DriverBolt)
	}
	if c.Slideshow.Interval <= 0 {
		c.Slideshow.Interval = DefaultInterval
	}
	return nil
}

// flagKeys maps config keys to the command-line flags that may override them.
var flagKeys = map[string]string{
	"store.driver":       "driver",
	"store.path":         "db",
	"slideshow.interval": "interval",
	"slideshow.shuffle":  "shuffle",
	"logging.level":      "log-level",
	"logging.file":       "log-file",
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// AddFlags registers every flag Load knows how to bind.
func AddFlags(fs *pflag.FlagSet) {
	AddStoreFlags(fs)
	fs.Duration("interval", DefaultInterval, "Slideshow image display interval")
	fs.Bool("shuffle", false, "Show slideshow images in a shuffled order")
}

// AddStoreFlags registers the storage and logging flags only, for tools
// without a slideshow.
func AddStoreFlags(fs *pflag.FlagSet) {
	fs.String("driver", DriverSQLite, "Storage engine: sqlite or bolt")
	fs.String("db", "", "Path to the image database file")
	fs.String("log-level", "info", "Log level: debug, info, warn, error")
	fs.String("log-file", "", "Also write logs to this file")
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("store.driver", cfg.Store.Driver)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("slideshow.interval", cfg.Slideshow.Interval)
	v.SetDefault("slideshow.shuffle", cfg.Slideshow.Shuffle)
	v.SetDefault("gallery.thumbnails", cfg.Gallery.Thumbnails)
	v.SetDefault("gallery.extensions", cfg.Gallery.Extensions)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
}
