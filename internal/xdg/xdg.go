// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

// Package xdg locates TaskShare files under the XDG Base Directory layout.
package xdg

import (
	"os"
	"path/filepath"
)

const appName = "taskshare"

// ConfigFileName is the config file looked up in ConfigDir.
const ConfigFileName = "config.yaml"

// ConfigDir returns the XDG config directory for taskshare.
// Checks XDG_CONFIG_HOME first, falls back to ~/.config.
func ConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, appName)
}

// ConfigFile returns the default config file path. The file may not exist.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), ConfigFileName)
}

// CertsDir returns the directory for locally generated TLS certificates.
func CertsDir() string {
	return filepath.Join(ConfigDir(), "certs")
}

// FindConfigFile returns ConfigFile if it exists as a regular file.
func FindConfigFile() (string, bool) {
	path := ConfigFile()
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return path, true
}
