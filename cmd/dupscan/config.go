package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/davetashner/dupscan/internal/config"
)

// Config command flags.
var configDir string

// configCmd is the parent command for config subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective dupscan configuration",
	Long: `Inspect the effective dupscan configuration.

Dupscan reads .dupscan.yaml, .dupscan.yml or .dupscan.toml from the scan
root. A global config at ~/.config/dupscan/config.yaml provides defaults.
Repo-level settings override global settings.`,
}

// configGetCmd prints one value by dot-notation key path.
var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get an effective configuration value by dot-notation key path.

Examples:
  dupscan config get min_duplicate_lines
  dupscan config get filters.import_group
  dupscan config get -C service hash_algorithm`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configShowCmd prints the whole effective configuration.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

// configListCmd prints every value as key = value.
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every configuration value by key path",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func init() {
	configCmd.PersistentFlags().StringVarP(&configDir, "dir", "C", ".", "directory whose config to read")

	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configListCmd)
}

func loadEffective() (*config.Config, error) {
	cfg, _, err := config.Load(configDir)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	return cfg, nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := config.ValidateKeyPath(args[0]); err != nil {
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	val, err := config.GetValue(cfg, args[0])
	if err != nil {
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	return printValue(cmd, val)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	return config.Write(cmd.OutOrStdout(), cfg)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadEffective()
	if err != nil {
		return err
	}
	flat, err := config.Flatten(cfg)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	key := color.New(color.FgCyan)
	for _, k := range keys {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key.Sprint(k), flat[k])
	}
	return nil
}

func printValue(cmd *cobra.Command, val any) error {
	switch v := val.(type) {
	case map[string]any, []any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(cmd.OutOrStdout(), string(data))
	default:
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
