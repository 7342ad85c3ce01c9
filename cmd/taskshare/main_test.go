// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 TaskShare Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskshare/taskshare/internal/config"
	"github.com/taskshare/taskshare/pkg/errutil"
)

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	for _, sub := range []string{"serve", "migrate", "config"} {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestRootCommand_ConfigFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantFlag string
	}{
		{
			name:     "config flag",
			args:     []string{"--config", "/path/to/config.yaml", "--help"},
			wantFlag: "/path/to/config.yaml",
		},
		{
			name:     "config flag with equals",
			args:     []string{"--config=/etc/taskshare.yaml", "--help"},
			wantFlag: "/etc/taskshare.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFlag, configFile)
		})
	}
}

func TestRootCommand_VersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	cmd.Version = "test-version"
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "test-version")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "nonexistent")
	require.Error(t, err)
}

func TestServeCommand_Flags(t *testing.T) {
	output, err := execute(t, "serve", "--help")
	require.NoError(t, err)

	for _, flag := range []string{"--http-addr", "--metrics-addr", "--log-format", "--log-level", "--database-url", "--config"} {
		assert.Contains(t, output, flag)
	}
}

func TestServeCommand_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := execute(t, "serve", "--database-url", "postgres://localhost/db")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, config.CodeMissingSecret)
}

func TestMigrateCommand_NoDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := execute(t, "migrate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestConfigSchemaCommand(t *testing.T) {
	output, err := execute(t, "config", "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &doc))
	assert.Equal(t, config.SchemaID, doc["$id"])
}

func TestConfigValidateCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	dir := t.TempDir()
	valid := filepath.Join(dir, "valid.yaml")
	require.NoError(t, os.WriteFile(valid, []byte("jwt:\n  secret: s3cret\ndatabase:\n  url: postgres://localhost/db\n"), 0o600))
	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("http:\n  port: 80\n"), 0o600))

	t.Run("valid file", func(t *testing.T) {
		output, err := execute(t, "config", "validate", "--config", valid)
		require.NoError(t, err)
		assert.Contains(t, output, "Configuration is valid")
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := execute(t, "config", "validate", "--config", invalid)
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeInvalid)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := execute(t, "config", "validate", "--database-url", "postgres://localhost/db")
		require.Error(t, err)
		errutil.AssertErrorCode(t, err, config.CodeMissingSecret)
	})
}

func TestConfigPath(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)
	configFile = ""
	assert.Empty(t, configPath())

	require.NoError(t, os.MkdirAll(filepath.Join(base, "taskshare"), 0o700))
	xdgFile := filepath.Join(base, "taskshare", "config.yaml")
	require.NoError(t, os.WriteFile(xdgFile, []byte("log:\n  format: text\n"), 0o600))
	assert.Equal(t, xdgFile, configPath())

	configFile = "/etc/taskshare.yaml"
	t.Cleanup(func() { configFile = "" })
	assert.Equal(t, "/etc/taskshare.yaml", configPath(), "the flag wins")
}

func TestFormatVersion(t *testing.T) {
	assert.Equal(t, "dev (commit: unknown, built: unknown)", formatVersion("dev", "unknown", "unknown"))
	assert.Equal(t, "1.0.0 (commit: abc123, built: 2026-01-15)", formatVersion("1.0.0", "abc123", "2026-01-15"))
}
