// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package xdg

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigDir_EnvVar(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := ConfigDir(), "/custom/config/taskshare"; got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Default(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/testuser")
	if got, want := ConfigDir(), "/home/testuser/.config/taskshare"; got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := ConfigFile(), "/custom/config/taskshare/config.yaml"; got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestCertsDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got, want := CertsDir(), "/custom/config/taskshare/certs"; got != want {
		t.Errorf("CertsDir() = %q, want %q", got, want)
	}
}

func TestFindConfigFile(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	if path, ok := FindConfigFile(); ok {
		t.Fatalf("FindConfigFile() = %q, want not found", path)
	}

	dir := filepath.Join(base, "taskshare")
	if err := os.MkdirAll(filepath.Join(dir, ConfigFileName), 0o700); err != nil {
		t.Fatal(err)
	}
	if _, ok := FindConfigFile(); ok {
		t.Error("FindConfigFile() accepted a directory")
	}
	if err := os.Remove(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}

	want := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(want, []byte("log:\n  format: text\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, ok := FindConfigFile()
	if !ok || got != want {
		t.Errorf("FindConfigFile() = %q, %v, want %q, true", got, ok, want)
	}
}
