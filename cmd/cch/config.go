package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"cch/internal/committypes"
	"cch/internal/config"
	"cch/internal/errors"
	"cch/internal/paths"
	"cch/internal/project"
	"cch/internal/scopes"
)

var (
	configShowDiff    bool
	configInitForce   bool
	configFromHistory bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cch configuration",
	Long: `View cch's own settings (config.toml in the user config directory) and
create a project's .dev/conventional-commit-helper.toml.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the effective cch configuration after environment overrides.

Examples:
  cch config show                # TOML rendering of the settings
  cch config show --format json  # JSON with source details
  cch config show --diff         # Only show non-default values`,
	Args: cobra.NoArgs,
	Run:  runConfigShow,
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Args:  cobra.NoArgs,
	Run:   runConfigEnv,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter project config",
	Long: `Write .dev/conventional-commit-helper.toml (or the configured project
config path) with the default commit types.

With --from-history the [scopes] table is seeded with every scope found in the
repository's history.`,
	Args: cobra.NoArgs,
	Run:  runConfigInit,
}

func init() {
	configShowCmd.Flags().BoolVar(&configShowDiff, "diff", false, "Only show non-default values")
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configFromHistory, "from-history", false, "Seed [scopes] from commit history")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

// ConfigShowResponse is the response format for config show
type ConfigShowResponse struct {
	ConfigPath   string                 `json:"configPath,omitempty" yaml:"configPath,omitempty"`
	UsedDefaults bool                   `json:"usedDefaults" yaml:"usedDefaults"`
	EnvOverrides []config.EnvOverride   `json:"envOverrides,omitempty" yaml:"envOverrides,omitempty"`
	Config       map[string]interface{} `json:"config" yaml:"config"`
}

func runConfigShow(cmd *cobra.Command, args []string) {
	result := loadConfig()

	configMap, err := toMap(result.Config)
	if err != nil {
		exitWithError(errors.New(errors.InternalError, "failed to encode config", err))
	}
	if configShowDiff {
		defaultMap, err := toMap(config.DefaultConfig())
		if err != nil {
			exitWithError(errors.New(errors.InternalError, "failed to encode defaults", err))
		}
		configMap = computeDiff(configMap, defaultMap)
	}

	format := OutputFormat(formatFlag)
	if format != FormatHuman {
		printResponse(&ConfigShowResponse{
			ConfigPath:   result.ConfigPath,
			UsedDefaults: result.UsedDefaults,
			EnvOverrides: result.EnvOverrides,
			Config:       configMap,
		}, format)
		return
	}

	fmt.Println("cch Configuration")
	fmt.Println(strings.Repeat("─", 50))
	if result.UsedDefaults {
		fmt.Println("Source: defaults (no config file found)")
	} else {
		fmt.Printf("Source: %s\n", result.ConfigPath)
	}
	if len(result.EnvOverrides) > 0 {
		fmt.Println("\nEnvironment Overrides:")
		for _, ov := range result.EnvOverrides {
			fmt.Printf("  %s=%s → %s\n", ov.EnvVar, ov.Value, ov.Path)
		}
	}
	fmt.Println()

	var out []byte
	if configShowDiff {
		out, err = toml.Marshal(configMap)
	} else {
		out, err = toml.Marshal(result.Config)
	}
	if err != nil {
		exitWithError(errors.New(errors.InternalError, "failed to render config", err))
	}
	if len(out) == 0 {
		fmt.Println("(all values are defaults)")
		return
	}
	fmt.Print(string(out))
}

// toMap round-trips v through JSON so configs can be diffed generically.
func toMap(v interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func computeDiff(current, defaults map[string]interface{}) map[string]interface{} {
	diff := make(map[string]interface{})
	for key, currentVal := range current {
		defaultVal, exists := defaults[key]
		if !exists {
			diff[key] = currentVal
			continue
		}

		currentMap, currentIsMap := currentVal.(map[string]interface{})
		defaultMap, defaultIsMap := defaultVal.(map[string]interface{})
		if currentIsMap && defaultIsMap {
			if nested := computeDiff(currentMap, defaultMap); len(nested) > 0 {
				diff[key] = nested
			}
		} else if fmt.Sprintf("%v", currentVal) != fmt.Sprintf("%v", defaultVal) {
			diff[key] = currentVal
		}
	}
	return diff
}

type envVarInfo struct {
	Name    string `json:"name" yaml:"name"`
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Desc    string `json:"description" yaml:"description"`
	VarType string `json:"type" yaml:"type"`
}

var envVarDocs = map[string]envVarInfo{
	config.ConfigPathEnvVar:   {Desc: "Path to the settings file", VarType: "string"},
	paths.HomeEnvVar:          {Desc: "Directory for both settings and cache", VarType: "string"},
	"CCH_BACKEND":             {Desc: "Git backend (gogit, cli)", VarType: "string"},
	"CCH_GIT_TIMEOUT_MS":      {Desc: "Timeout per git invocation (cli backend)", VarType: "int"},
	"CCH_CACHE_ENABLED":       {Desc: "Read the scope cache in 'cch scope'", VarType: "bool"},
	"CCH_CACHE_PATH":          {Desc: "Scope cache database file", VarType: "string"},
	"CCH_PROJECT_CONFIG_PATH": {Desc: "Project types/scopes file, relative to the repo root", VarType: "string"},
	"CCH_LOG_LEVEL":           {Desc: "Log level (debug, info, warn, error)", VarType: "string"},
	"CCH_LOG_FORMAT":          {Desc: "Log format (human, json)", VarType: "string"},
}

func supportedEnvVars() []envVarInfo {
	names := append([]string{paths.HomeEnvVar}, config.GetSupportedEnvVars()...)
	out := make([]envVarInfo, 0, len(names))
	for _, name := range names {
		info := envVarDocs[name]
		info.Name = name
		if info.VarType == "" {
			info.VarType = "string"
		}
		info.Path, _ = config.EnvVarPath(name)
		out = append(out, info)
	}
	return out
}

func runConfigEnv(cmd *cobra.Command, args []string) {
	vars := supportedEnvVars()

	format := OutputFormat(formatFlag)
	if format != FormatHuman {
		printResponse(vars, format)
		return
	}

	fmt.Println("Supported cch Environment Variables")
	fmt.Println(strings.Repeat("─", 50))
	fmt.Println()
	for _, v := range vars {
		fmt.Printf("  %-26s %s (%s)\n", v.Name, v.Desc, v.VarType)
	}
	fmt.Println()
	fmt.Println("Example usage:")
	fmt.Println("  CCH_BACKEND=cli cch scope")
	fmt.Println("  CCH_LOG_LEVEL=debug cch cache update")
}

func runConfigInit(cmd *cobra.Command, args []string) {
	ctx, cancel := newContext()
	defer cancel()

	s := mustOpenSession(ctx, false)
	target := project.Path(s.backend.Root(), s.cfg.Project.ConfigPath)

	var scopeList []scopes.Scope
	if configFromHistory {
		index, _, _, err := s.service.BuildIndex(ctx)
		if err != nil {
			exitWithError(err)
		}
		scopeList = index.Scopes()
		s.logger.Info("Seeding scopes from history", "scopes", len(scopeList))
	}

	if err := project.WriteStarter(target, committypes.Defaults(), scopeList, configInitForce); err != nil {
		exitWithError(err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", target)
}
