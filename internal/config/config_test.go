package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(&cfg))
}

func TestDefaultCompressionEnabled(t *testing.T) {
	cfg := Default()
	require.True(t, cfg.CompressionEnabled())
	cfg.CompressionThreshold = -1
	require.False(t, cfg.CompressionEnabled())
}

func TestValidateRejectsNonPositiveMaxPlayers(t *testing.T) {
	cfg := Default()
	cfg.MaxPlayers = 0
	require.Error(t, Validate(&cfg))
}

func TestValidateRejectsMalformedBindAddress(t *testing.T) {
	cfg := Default()
	cfg.BindAddress = "not-a-host-port"
	require.Error(t, Validate(&cfg))
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := Default()
	cfg.ConnectionTimeout = 0
	require.Error(t, Validate(&cfg))
}

func TestValidateRejectsOversizeFavicon(t *testing.T) {
	cfg := Default()
	cfg.Favicon = strings.Repeat("a", 40000)
	require.Error(t, Validate(&cfg))
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ember.yaml")
	yaml := "max_players: 50\nmotd: Custom Server\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 50, cfg.MaxPlayers)
	require.Equal(t, "Custom Server", cfg.MOTD)
	// Unset fields still fall back to defaults.
	require.Equal(t, Default().BindAddress, cfg.BindAddress)
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	t.Setenv("EMBER_MAX_PLAYERS", "99")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, 99, cfg.MaxPlayers)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ember.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_players: -5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
