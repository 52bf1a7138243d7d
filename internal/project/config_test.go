package project

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"cch/internal/errors"
	"cch/internal/scopes"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		wantTypes  []scopes.Scope
		wantScopes []scopes.Scope
	}{
		{
			name: "both tables",
			data: "[types]\nfoo = \"bar\"\n[scopes]\nfoz = \"baz\"\n",
			wantTypes: []scopes.Scope{
				{Name: "foo", Description: "bar"},
			},
			wantScopes: []scopes.Scope{
				{Name: "foz", Description: "baz"},
			},
		},
		{
			name: "declaration order kept",
			data: "[scopes]\nzeta = \"z\"\nalpha = \"a\"\nmid = \"m\"\n",
			wantScopes: []scopes.Scope{
				{Name: "zeta", Description: "z"},
				{Name: "alpha", Description: "a"},
				{Name: "mid", Description: "m"},
			},
		},
		{
			name:       "empty table is present",
			data:       "[scopes]\n",
			wantScopes: []scopes.Scope{},
		},
		{
			name: "unrelated tables ignored",
			data: "[other]\nx = \"y\"\n[types]\nci = \"pipelines\"\n",
			wantTypes: []scopes.Scope{
				{Name: "ci", Description: "pipelines"},
			},
		},
		{
			name: "quoted keys",
			data: "[scopes]\n\"web ui\" = \"frontend\"\n",
			wantScopes: []scopes.Scope{
				{Name: "web ui", Description: "frontend"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if !reflect.DeepEqual(cfg.Types, tt.wantTypes) {
				t.Errorf("Types = %#v, want %#v", cfg.Types, tt.wantTypes)
			}
			if !reflect.DeepEqual(cfg.Scopes, tt.wantScopes) {
				t.Errorf("Scopes = %#v, want %#v", cfg.Scopes, tt.wantScopes)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, data := range []string{
		"[types\nfoo = \"bar\"",
		"[types]\nfoo = 1\n",
		"top = \"level\"\n",
	} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("Parse(%q) should fail", data)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil || cfg != nil {
		t.Errorf("Load(missing) = %v, %v; want nil, nil", cfg, err)
	}
	if cfg.ConfiguredScopes() != nil || cfg.ConfiguredTypes() != nil {
		t.Error("nil config should have no configured entries")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[scopes]\nx = \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !errors.HasCode(err, errors.ConfigInvalid) {
		t.Errorf("Load(bad) error = %v, want %s", err, errors.ConfigInvalid)
	}
}

func TestLoadFromRepo(t *testing.T) {
	root := t.TempDir()
	rel := ".dev/conventional-commit-helper.toml"
	if err := os.MkdirAll(filepath.Join(root, ".dev"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".dev", "conventional-commit-helper.toml"), []byte("[scopes]\napi = \"HTTP API\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromRepo(root, rel)
	if err != nil {
		t.Fatalf("LoadFromRepo() error = %v", err)
	}
	want := []scopes.Scope{{Name: "api", Description: "HTTP API"}}
	if !reflect.DeepEqual(cfg.ConfiguredScopes(), want) {
		t.Errorf("ConfiguredScopes() = %v, want %v", cfg.ConfiguredScopes(), want)
	}
	if cfg.ConfiguredTypes() != nil {
		t.Errorf("ConfiguredTypes() = %v, want nil", cfg.ConfiguredTypes())
	}

	abs := filepath.Join(t.TempDir(), "elsewhere.toml")
	if got := Path(root, abs); got != abs {
		t.Errorf("Path() with absolute path = %s, want %s", got, abs)
	}
}

func TestWriteStarterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".dev", "conventional-commit-helper.toml")
	types := []scopes.Scope{{Name: "feat", Description: "A new feature"}, {Name: "fix", Description: "A bug fix"}}
	scopeList := []scopes.Scope{{Name: "cli", Description: "it's the command line"}}

	if err := WriteStarter(path, types, scopeList, false); err != nil {
		t.Fatalf("WriteStarter() error = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg.Types, types) {
		t.Errorf("Types = %v, want %v", cfg.Types, types)
	}
	if !reflect.DeepEqual(cfg.Scopes, scopeList) {
		t.Errorf("Scopes = %v, want %v", cfg.Scopes, scopeList)
	}

	if err := WriteStarter(path, nil, nil, false); !errors.HasCode(err, errors.ConfigInvalid) {
		t.Errorf("second WriteStarter() error = %v, want %s", err, errors.ConfigInvalid)
	}
	if err := WriteStarter(path, nil, nil, true); err != nil {
		t.Errorf("forced WriteStarter() error = %v", err)
	}
}
