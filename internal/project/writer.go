package project

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"cch/internal/errors"
	"cch/internal/paths"
	"cch/internal/scopes"
)

const starterHeader = "# Commit types and scopes offered by cch.\n# Keys are names, values are descriptions.\n\n"

type starterFile struct {
	Types  map[string]string `toml:"types"`
	Scopes map[string]string `toml:"scopes"`
}

// Render produces helper file contents. Entries are written sorted by name.
func Render(types, scopeList []scopes.Scope) ([]byte, error) {
	file := starterFile{
		Types:  make(map[string]string, len(types)),
		Scopes: make(map[string]string, len(scopeList)),
	}
	for _, t := range types {
		file.Types[t.Name] = t.Description
	}
	for _, s := range scopeList {
		file.Scopes[s.Name] = s.Description
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(file); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteStarter writes a helper file, refusing to replace an existing one
// unless force is set.
func WriteStarter(path string, types, scopeList []scopes.Scope, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ConfigInvalid, fmt.Sprintf("%s already exists", path), nil).WithDetails(map[string]interface{}{
				"path": path,
				"hint": "pass --force to overwrite",
			})
		}
	}

	data, err := Render(types, scopeList)
	if err != nil {
		return errors.New(errors.InternalError, "failed to render project config", err)
	}

	if err := paths.EnsureParentDir(path); err != nil {
		return errors.New(errors.InternalError, "failed to create config directory", err)
	}
	return os.WriteFile(path, data, 0644)
}
