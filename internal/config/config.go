// Package config handles the XDG configuration directory, the settings file
// and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"taskmgr/internal/logging"
	"taskmgr/internal/storage"
	"taskmgr/internal/view"
)

const (
	// AppName is the application directory name.
	AppName = "taskmgr"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// EnvFile is the optional dotenv filename.
	EnvFile = ".env"

	// EnvStorage overrides storage.backend.
	EnvStorage = "TASKMGR_STORAGE"

	// EnvReloadDelay overrides view.reload_delay (Go duration syntax).
	EnvReloadDelay = "TASKMGR_RELOAD_DELAY"
)

// ErrInvalid marks configuration errors.
var ErrInvalid = errors.New("invalid configuration")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`

	Storage StorageConfig `yaml:"storage"`
	View    ViewConfig    `yaml:"view"`

	// Logger is set by the dispatcher once flags are parsed.
	Logger *logrus.Logger `yaml:"-"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend    string `yaml:"backend"`
	QuotaBytes int    `yaml:"quota_bytes"`
}

// ViewConfig tunes the view controller.
type ViewConfig struct {
	ReloadDelay time.Duration `yaml:"reload_delay"`
}

// New creates a Config with defaults and the default or specified config
// directory. If configDir is empty, uses XDG_CONFIG_HOME/taskmgr or
// $HOME/.config/taskmgr.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir: dir,
		Storage: StorageConfig{
			Backend:    storage.BackendFile,
			QuotaBytes: storage.DefaultQuotaBytes,
		},
		View: ViewConfig{ReloadDelay: view.DefaultDelay},
	}, nil
}

// Load is New followed by the settings file, the dotenv file and the
// process environment, each overriding the one before.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}
	if err := cfg.readSettings(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// EnvPath returns the path to the dotenv file.
func (c *Config) EnvPath() string {
	return filepath.Join(c.Dir, EnvFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// Log returns the configured logger, or a discarding one.
func (c *Config) Log() *logrus.Logger {
	if c.Logger == nil {
		return logging.Discard()
	}
	return c.Logger
}

// StorageOptions converts the settings into storage.Open options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Storage.Backend,
		Dir:        c.Dir,
		QuotaBytes: c.Storage.QuotaBytes,
		Logger:     c.Log(),
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if _, err := storage.ParseBackend(c.Storage.Backend); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("%w: storage.quota_bytes must not be negative", ErrInvalid)
	}
	if c.View.ReloadDelay < 0 {
		return fmt.Errorf("%w: view.reload_delay must not be negative", ErrInvalid)
	}
	return nil
}

func (c *Config) readSettings() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.SettingsPath(), err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	dotenv, err := godotenv.Read(c.EnvPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, c.EnvPath(), err)
	}
	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	if v, ok := lookup(EnvStorage); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup(EnvReloadDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, EnvReloadDelay, err)
		}
		c.View.ReloadDelay = d
	}
	return nil
}
