// Copyright 2026 The Dupscan Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
)

// GlobalConfigDir returns the directory for global dupscan configuration.
// It uses $XDG_CONFIG_HOME/dupscan if set, otherwise ~/.config/dupscan.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "dupscan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "dupscan")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}
