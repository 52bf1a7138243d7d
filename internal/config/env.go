package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

// ConfigPathEnvVar points at an explicit settings file.
const ConfigPathEnvVar = "CCH_CONFIG_PATH"

// EnvOverride records a setting taken from the environment.
type EnvOverride struct {
	EnvVar string `json:"envVar"`
	Path   string `json:"path"`
	Value  string `json:"value"`
}

type envKind int

const (
	envString envKind = iota
	envInt
	envBool
)

type envMapping struct {
	path string
	kind envKind
}

// envVarMappings maps CCH_* variables to config paths.
var envVarMappings = map[string]envMapping{
	"CCH_BACKEND":             {"backend", envString},
	"CCH_GIT_TIMEOUT_MS":      {"git.timeout_ms", envInt},
	"CCH_CACHE_ENABLED":       {"cache.enabled", envBool},
	"CCH_CACHE_PATH":          {"cache.path", envString},
	"CCH_PROJECT_CONFIG_PATH": {"project.config_path", envString},
	"CCH_LOG_LEVEL":           {"logging.level", envString},
	"CCH_LOG_FORMAT":          {"logging.format", envString},
}

// GetSupportedEnvVars returns every recognised variable, sorted.
func GetSupportedEnvVars() []string {
	vars := make([]string, 0, len(envVarMappings)+1)
	vars = append(vars, ConfigPathEnvVar)
	for name := range envVarMappings {
		vars = append(vars, name)
	}
	sort.Strings(vars)
	return vars
}

// EnvVarPath returns the config path a variable overrides.
func EnvVarPath(envVar string) (string, bool) {
	m, ok := envVarMappings[envVar]
	return m.path, ok
}

// ApplyEnvOverrides applies CCH_* variables to cfg and returns what changed.
func ApplyEnvOverrides(cfg *Config) []EnvOverride {
	return applyEnvOverrides(cfg)
}

func applyEnvOverrides(cfg *Config) []EnvOverride {
	var overrides []EnvOverride

	names := make([]string, 0, len(envVarMappings))
	for name := range envVarMappings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		raw, ok := os.LookupEnv(name)
		if !ok || raw == "" {
			continue
		}
		m := envVarMappings[name]

		var value interface{}
		switch m.kind {
		case envInt:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			value = n
		case envBool:
			b, err := strconv.ParseBool(strings.TrimSpace(raw))
			if err != nil {
				continue
			}
			value = b
		default:
			value = raw
		}

		if applyOverride(cfg, m.path, value) {
			overrides = append(overrides, EnvOverride{EnvVar: name, Path: m.path, Value: raw})
		}
	}

	return overrides
}

// applyOverride sets the field at path; false on unknown paths or wrong types.
func applyOverride(cfg *Config, path string, value interface{}) bool {
	parts := strings.Split(path, ".")

	switch parts[0] {
	case "backend":
		if len(parts) != 1 {
			return false
		}
		if s, ok := value.(string); ok {
			cfg.Backend = s
			return true
		}

	case "git":
		if len(parts) != 2 {
			return false
		}
		if parts[1] == "timeout_ms" {
			if n, ok := value.(int); ok {
				cfg.Git.TimeoutMs = n
				return true
			}
		}

	case "cache":
		if len(parts) != 2 {
			return false
		}
		switch parts[1] {
		case "enabled":
			if b, ok := value.(bool); ok {
				cfg.Cache.Enabled = b
				return true
			}
		case "path":
			if s, ok := value.(string); ok {
				cfg.Cache.Path = s
				return true
			}
		}

	case "project":
		if len(parts) != 2 {
			return false
		}
		if parts[1] == "config_path" {
			if s, ok := value.(string); ok {
				cfg.Project.ConfigPath = s
				return true
			}
		}

	case "logging":
		if len(parts) != 2 {
			return false
		}
		s, ok := value.(string)
		if !ok {
			return false
		}
		switch parts[1] {
		case "level":
			cfg.Logging.Level = strings.ToLower(s)
			return true
		case "format":
			cfg.Logging.Format = strings.ToLower(s)
			return true
		}
	}

	return false
}
