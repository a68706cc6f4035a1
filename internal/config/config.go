// Package config provides configuration loading and management for the dialer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is used for the default config and cache locations.
	AppName = "bbsdial"

	// SourceKindDir is a source backed by a local directory of entry files.
	SourceKindDir = "dir"

	// SourceKindGit is a source backed by a remote git repository.
	SourceKindGit = "git"
)

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file at the given path.
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}
		cfg.path = filepath.Clean(path)
		return nil
	}
}

// Config represents the root configuration structure.
type Config struct {
	// SourceDirs is the ordered list of entry sources. Each element is
	// either a local directory path or a remote git repository URL.
	// Order is significant: when two sources emit an entry with the
	// same id, the later-configured source wins.
	SourceDirs []string `yaml:"source_dirs"`

	// CacheFile is the path of the persisted catalog cache.
	CacheFile string `yaml:"cache_file"`

	// MaxCacheAge is the age past which the cache is considered stale
	// (e.g. "24h"). Empty or "0" means the cache never expires on its
	// own; refresh is user-initiated.
	MaxCacheAge string `yaml:"max_cache_age,omitempty"`

	// RefreshTimeout bounds a whole aggregation pass (e.g. "30s").
	// Sources still in flight at the deadline are abandoned.
	RefreshTimeout string `yaml:"refresh_timeout,omitempty"`

	// GitAuth holds optional credentials for private git sources.
	GitAuth *GitAuth `yaml:"git_auth,omitempty"`
}

// GitAuth defines HTTP basic auth credentials for git sources. The
// password never lives in the config file itself.
type GitAuth struct {
	// Username is the git username or token name.
	Username string `yaml:"username"`

	// PasswordEnv names the environment variable holding the password
	// or access token.
	PasswordEnv string `yaml:"password_env"`
}

// GetPassword resolves the password from the configured environment
// variable.
func (a *GitAuth) GetPassword() (string, error) {
	if a.PasswordEnv == "" {
		return "", fmt.Errorf("git_auth.password_env is not set")
	}
	password := os.Getenv(a.PasswordEnv)
	if password == "" {
		return "", fmt.Errorf("environment variable %s is empty or not set", a.PasswordEnv)
	}
	return password, nil
}

// DefaultRefreshTimeout applies when refresh_timeout is not configured.
const DefaultRefreshTimeout = 60 * time.Second

// LoadConfig loads and parses configuration from a YAML file. A missing
// config file is not an error: the returned config uses the default
// source directory and cache location.
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	path := loaderCfg.path
	if path == "" {
		defaultPath, err := DefaultConfigFile()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	var config Config
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from user configuration
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// First run without a config file: fall through to defaults.
	} else {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfigFile returns the default config file path,
// ~/.config/bbsdial/config.yaml on most systems.
func DefaultConfigFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "config.yaml"), nil
}

// DefaultSourceDir returns the default local entry source directory.
func DefaultSourceDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}
	return filepath.Join(dir, AppName, "sources"), nil
}

// DefaultCacheFile returns the default catalog cache path.
func DefaultCacheFile() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user cache directory: %w", err)
	}
	return filepath.Join(dir, AppName, "catalog.yaml"), nil
}

func (c *Config) applyDefaults() error {
	if len(c.SourceDirs) == 0 {
		dir, err := DefaultSourceDir()
		if err != nil {
			return err
		}
		c.SourceDirs = []string{dir}
	}

	if c.CacheFile == "" {
		cacheFile, err := DefaultCacheFile()
		if err != nil {
			return err
		}
		c.CacheFile = cacheFile
	}

	return nil
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	for i, src := range c.SourceDirs {
		if strings.TrimSpace(src) == "" {
			return fmt.Errorf("source_dirs[%d]: source must not be empty", i)
		}
	}

	if c.MaxCacheAge != "" {
		if _, err := time.ParseDuration(c.MaxCacheAge); err != nil {
			return fmt.Errorf("max_cache_age must be a valid duration (e.g. '24h'): %w", err)
		}
	}

	if c.RefreshTimeout != "" {
		if _, err := time.ParseDuration(c.RefreshTimeout); err != nil {
			return fmt.Errorf("refresh_timeout must be a valid duration (e.g. '30s'): %w", err)
		}
	}

	if c.GitAuth != nil {
		if strings.TrimSpace(c.GitAuth.Username) == "" {
			return fmt.Errorf("git_auth.username must not be empty")
		}
		if strings.TrimSpace(c.GitAuth.PasswordEnv) == "" {
			return fmt.Errorf("git_auth.password_env must not be empty")
		}
	}

	return nil
}

// GetMaxCacheAge returns the parsed max cache age. Zero means the
// cache never expires by age alone.
func (c *Config) GetMaxCacheAge() time.Duration {
	if c.MaxCacheAge == "" {
		return 0
	}
	d, err := time.ParseDuration(c.MaxCacheAge)
	if err != nil {
		return 0
	}
	return d
}

// GetRefreshTimeout returns the parsed refresh timeout.
func (c *Config) GetRefreshTimeout() time.Duration {
	if c.RefreshTimeout == "" {
		return DefaultRefreshTimeout
	}
	d, err := time.ParseDuration(c.RefreshTimeout)
	if err != nil {
		return DefaultRefreshTimeout
	}
	return d
}

// SourceKind infers the kind of a source descriptor from its shape.
// Remote git repositories are recognized by URL scheme or the scp-like
// git@host:path form; everything else is a local directory.
func SourceKind(source string) string {
	lower := strings.ToLower(source)
	for _, prefix := range []string{"http://", "https://", "git://", "ssh://"} {
		if strings.HasPrefix(lower, prefix) {
			return SourceKindGit
		}
	}
	if strings.HasPrefix(source, "git@") && strings.Contains(source, ":") {
		return SourceKindGit
	}
	return SourceKindDir
}
