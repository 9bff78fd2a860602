package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"boardctl/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and edit boardctl configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		token := ""
		if cfg.Token != "" {
			token = "(set)"
		}
		resolved := map[string]interface{}{
			"token":     token,
			"owner":     cfg.Owner,
			"project":   cfg.ProjectNumber,
			"org":       cfg.IsOrg,
			"min_score": cfg.MinScore,
			"cache_ttl": cfg.CacheTTL.String(),
		}
		if cfg.AliasesFile != "" {
			resolved["aliases_file"] = cfg.AliasesFile
		}
		if jsonOutput {
			printJSON(resolved)
			return
		}
		for _, key := range configKeys {
			if v, ok := resolved[key]; ok {
				fmt.Printf("%s: %v\n", ui.Accent(key), v)
			}
		}
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		key := args[0]
		if !validConfigKey(key) {
			FatalErrorRespectJSON("unknown config key %q (valid: %v)", key, configKeys)
		}
		if key == "token" {
			FatalErrorRespectJSON("token is never printed; set it via GITHUB_TOKEN or the config file")
		}
		v := vp.Get(key)
		if jsonOutput {
			printJSON(map[string]interface{}{key: v})
			return
		}
		fmt.Printf("%v\n", v)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Write one configuration value to the config file",
	Long: `Write a value into the active config file: ./.boardctl.yaml when it
exists, otherwise ~/.config/boardctl/config.yaml (created on demand).`,
	Args: cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		key, raw := args[0], args[1]
		if !validConfigKey(key) {
			FatalErrorRespectJSON("unknown config key %q (valid: %v)", key, configKeys)
		}
		value, err := parseConfigValue(key, raw)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		path, err := writableConfigPath()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if err := updateConfigFile(path, key, value); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			printJSON(map[string]interface{}{"file": path, key: value})
			return
		}
		fmt.Printf("%s %s = %v (%s)\n", ui.OK(ui.IconOK), key, value, path)
	},
}

// configKeys is the closed set of settable keys, in display order.
var configKeys = []string{"token", "owner", "project", "org", "min_score", "cache_ttl", "aliases_file"}

func validConfigKey(key string) bool {
	for _, k := range configKeys {
		if k == key {
			return true
		}
	}
	return false
}

// parseConfigValue converts the raw CLI string into the key's native
// type so the yaml file stays typed.
func parseConfigValue(key, raw string) (interface{}, error) {
	switch key {
	case "project":
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("project must be a positive number, got %q", raw)
		}
		return n, nil
	case "org":
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("org must be true or false, got %q", raw)
		}
		return b, nil
	case "min_score":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f < 0 || f > 1 {
			return nil, fmt.Errorf("min_score must be a number in [0,1], got %q", raw)
		}
		return f, nil
	case "cache_ttl":
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("cache_ttl must be a duration like 5m, got %q", raw)
		}
		return d.String(), nil
	default:
		return raw, nil
	}
}

// writableConfigPath picks the config file to edit: the project-local
// override when present, otherwise the home-directory file.
func writableConfigPath() (string, error) {
	if _, err := os.Stat(".boardctl.yaml"); err == nil {
		return ".boardctl.yaml", nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, ".config", "boardctl")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// updateConfigFile read-modify-writes the yaml file, preserving keys it
// does not touch.
func updateConfigFile(path, key string, value interface{}) error {
	values := make(map[string]interface{})
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	values[key] = value
	out, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	mode := os.FileMode(0o644)
	if key == "token" {
		mode = 0o600
	}
	return os.WriteFile(path, out, mode)
}

func init() {
	configCmd.AddCommand(configShowCmd, configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
