// Package project reads and writes the per-repository helper file that
// declares commit types and scopes.
//
// The file has two optional tables whose keys are names and whose values are
// descriptions:
//
//	[types]
//	feat = "A new feature"
//
//	[scopes]
//	parser = "Parsing code"
//
// Declaration order is preserved.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"cch/internal/errors"
	"cch/internal/scopes"
)

const (
	typesTable  = "types"
	scopesTable = "scopes"
)

// Config is the parsed helper file. A nil slice means the table is absent;
// an empty, non-nil slice means it is present but has no entries.
type Config struct {
	Types  []scopes.Scope `json:"types,omitempty" yaml:"types,omitempty"`
	Scopes []scopes.Scope `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

// Parse decodes helper file contents.
func Parse(data []byte) (*Config, error) {
	var raw map[string]map[string]string
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if _, ok := raw[typesTable]; ok {
		cfg.Types = make([]scopes.Scope, 0, len(raw[typesTable]))
	}
	if _, ok := raw[scopesTable]; ok {
		cfg.Scopes = make([]scopes.Scope, 0, len(raw[scopesTable]))
	}

	// MetaData.Keys lists keys in the order they appear in the file.
	for _, key := range md.Keys() {
		if len(key) != 2 {
			continue
		}
		entry := scopes.Scope{Name: key[1], Description: raw[key[0]][key[1]]}
		switch key[0] {
		case typesTable:
			cfg.Types = append(cfg.Types, entry)
		case scopesTable:
			cfg.Scopes = append(cfg.Scopes, entry)
		}
	}

	return cfg, nil
}

// Load reads the helper file at path. It returns nil, nil when the file does
// not exist.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.New(errors.ConfigInvalid, "cannot read project config", err).WithDetails(map[string]interface{}{
			"path": path,
		})
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.New(errors.ConfigInvalid, fmt.Sprintf("invalid project config %s", path), err).WithDetails(map[string]interface{}{
			"path": path,
		})
	}
	return cfg, nil
}

// Path resolves the helper file location for a repository. Relative paths
// are taken from the working tree root.
func Path(repoRoot, configPath string) string {
	if filepath.IsAbs(configPath) {
		return configPath
	}
	return filepath.Join(repoRoot, filepath.FromSlash(configPath))
}

// LoadFromRepo reads the helper file of the repository rooted at repoRoot.
func LoadFromRepo(repoRoot, configPath string) (*Config, error) {
	return Load(Path(repoRoot, configPath))
}

// ConfiguredTypes returns the declared types, or nil when there are none.
func (c *Config) ConfiguredTypes() []scopes.Scope {
	if c == nil {
		return nil
	}
	return c.Types
}

// ConfiguredScopes returns the declared scopes, or nil when there are none.
func (c *Config) ConfiguredScopes() []scopes.Scope {
	if c == nil {
		return nil
	}
	return c.Scopes
}
