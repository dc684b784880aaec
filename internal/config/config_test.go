package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[daemon]
socket = "/tmp/pickup-test.sock"
log_level = "debug"

[renamer]
command = "bt-rename"
args = ["--plan", "-"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pickup-test.sock", cfg.Daemon.Socket)
	assert.Equal(t, "debug", cfg.Daemon.LogLevel)
	assert.Equal(t, "bt-rename", cfg.Renamer.Command)
	assert.Equal(t, []string{"--plan", "-"}, cfg.Renamer.Args)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "/run/pickup/pickup.sock", cfg.Daemon.Socket)
	assert.Equal(t, "info", cfg.Daemon.LogLevel)
	assert.ErrorIs(t, cfg.ValidateRenamer(), ErrNoRenamer)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_InvalidTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[daemon\nsocket ="))
	assert.Error(t, err)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("PICKUP_TEST_SOCKET", "/tmp/from-env.sock")

	cfg, err := Load(writeConfig(t, `
[daemon]
socket = "${PICKUP_TEST_SOCKET}"
`))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.sock", cfg.Daemon.Socket)
}

func TestLoad_EnvSubstitutionUnsetLeftAlone(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[renamer]
command = "${PICKUP_TEST_UNSET_VAR}"
`))
	require.NoError(t, err)
	assert.Equal(t, "${PICKUP_TEST_UNSET_VAR}", cfg.Renamer.Command)
}

func TestRuleSet_Additive(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[rules]
extra_extensions = [".flac"]

[rules.extra_patterns]
artwork = "artwork*"
`))
	require.NoError(t, err)

	rs := cfg.RuleSet()

	// Built-ins survive.
	_, ok := rs.MatchDir("Scans")
	assert.True(t, ok)
	assert.True(t, rs.MatchFile("ep01.mkv"))

	// Additions apply.
	p, ok := rs.MatchDir("Artwork Book")
	assert.True(t, ok)
	assert.Equal(t, "artwork", p.Name)
	assert.True(t, rs.MatchFile("track01.flac"))
}

func TestRuleSet_MetadataReplaced(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
[rules]
metadata = ["Thumbs.db", "desktop.ini"]
`))
	require.NoError(t, err)

	rs := cfg.RuleSet()
	assert.True(t, rs.IsMetadata("Thumbs.db"))
	assert.True(t, rs.IsMetadata("desktop.ini"))
	assert.False(t, rs.IsMetadata(".DS_Store"))
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "info", cfg.Daemon.LogLevel)

	rs := cfg.RuleSet()
	assert.True(t, rs.IsMetadata(".DS_Store"))
	_, ok := rs.MatchDir("特典")
	assert.True(t, ok)
}
