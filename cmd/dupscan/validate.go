// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davetashner/dupscan/internal/config"
)

// validateCmd checks a configuration without scanning.
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a dupscan configuration",
	Long: `Validate the configuration dupscan would use, without scanning.

Pass a directory to check its .dupscan.yaml/.yml/.toml (on top of the global
config), or a config file to check that file alone. Every problem is listed.

  dupscan validate
  dupscan validate ./service
  dupscan validate ci/dupscan.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return exitError(ExitInvalidArgs, "dupscan: cannot open %q (%v)", target, err)
	}

	var (
		cfg  *config.Config
		path = target
	)
	if info.IsDir() {
		cfg, path, err = config.Load(target)
	} else {
		cfg, err = config.LoadFile(target)
	}
	if err != nil {
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return exitError(ExitInvalidArgs, "dupscan: %v", err)
	}

	if path == "" {
		path = "defaults"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config ok: %s\n", path)
	return nil
}
