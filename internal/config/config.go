package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"cch/internal/paths"
)

// CurrentVersion is the only settings schema version understood.
const CurrentVersion = 1

// DefaultProjectConfigPath is where a repository declares its types and scopes,
// relative to the repository root.
const DefaultProjectConfigPath = ".dev/conventional-commit-helper.toml"

// Backend names
const (
	BackendGoGit = "gogit"
	BackendCLI   = "cli"
)

// Config represents the complete cch tool configuration
type Config struct {
	Version int           `json:"version" mapstructure:"version" toml:"version"`
	Backend string        `json:"backend" mapstructure:"backend" toml:"backend"`
	Git     GitConfig     `json:"git" mapstructure:"git" toml:"git"`
	Cache   CacheConfig   `json:"cache" mapstructure:"cache" toml:"cache"`
	Project ProjectConfig `json:"project" mapstructure:"project" toml:"project"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// GitConfig contains settings for the git CLI backend
type GitConfig struct {
	TimeoutMs int `json:"timeoutMs" mapstructure:"timeout_ms" toml:"timeout_ms"`
}

// CacheConfig contains scope cache settings
type CacheConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" toml:"enabled"`
	// Path overrides the cache database location; empty means the user cache dir.
	Path string `json:"path" mapstructure:"path" toml:"path"`
}

// ProjectConfig locates the per-repository types/scopes file
type ProjectConfig struct {
	ConfigPath string `json:"configPath" mapstructure:"config_path" toml:"config_path"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format"`
	Level  string `json:"level" mapstructure:"level" toml:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Backend: BackendGoGit,
		Git: GitConfig{
			TimeoutMs: 5000,
		},
		Cache: CacheConfig{
			Enabled: true,
		},
		Project: ProjectConfig{
			ConfigPath: DefaultProjectConfigPath,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "warn",
		},
	}
}

// LoadResult contains the loaded config and metadata about how it was loaded
type LoadResult struct {
	Config       *Config
	ConfigPath   string // Path to the config file used (empty if defaults)
	UsedDefaults bool
	EnvOverrides []EnvOverride
}

// LoadConfig loads configuration from <configDir>/config.toml
func LoadConfig(configDir string) (*Config, error) {
	result, err := LoadConfigWithDetails(configDir)
	if err != nil {
		return nil, err
	}
	return result.Config, nil
}

// LoadConfigWithDetails loads configuration and reports where it came from.
// CCH_CONFIG_PATH selects an explicit file, which must exist; otherwise
// <configDir>/config.toml is used when present and defaults apply when not.
func LoadConfigWithDetails(configDir string) (*LoadResult, error) {
	result := &LoadResult{}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		cfg, err := loadConfigFromPath(envPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s=%s: %w", ConfigPathEnvVar, envPath, err)
		}
		result.Config = cfg
		result.ConfigPath = envPath
	} else {
		candidate := filepath.Join(configDir, paths.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := loadConfigFromPath(candidate)
			if err != nil {
				return nil, err
			}
			result.Config = cfg
			result.ConfigPath = candidate
		} else {
			result.Config = DefaultConfig()
			result.UsedDefaults = true
		}
	}

	result.EnvOverrides = applyEnvOverrides(result.Config)

	if err := result.Config.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

// loadConfigFromPath reads a TOML settings file on top of the defaults, so
// keys missing from the file keep their default values.
func loadConfigFromPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to <configDir>/config.toml
func (c *Config) Save(configDir string) error {
	configPath := filepath.Join(configDir, paths.ConfigFileName)

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}

	switch c.Backend {
	case BackendGoGit, BackendCLI:
	default:
		return &ConfigError{Field: "backend", Message: fmt.Sprintf("unknown backend %q (want %s or %s)", c.Backend, BackendGoGit, BackendCLI)}
	}

	if c.Git.TimeoutMs <= 0 {
		return &ConfigError{Field: "git.timeout_ms", Message: "must be positive"}
	}

	if c.Project.ConfigPath == "" {
		return &ConfigError{Field: "project.config_path", Message: "must not be empty"}
	}

	switch c.Logging.Format {
	case "human", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: fmt.Sprintf("unknown format %q", c.Logging.Format)}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ConfigError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)}
	}

	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// IsConfigError reports whether err carries a *ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
