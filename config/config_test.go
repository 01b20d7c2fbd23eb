package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/notaryclient/notaryclient/config"
)

func TestDefaultPopulatesDerivedPaths(t *testing.T) {
	cfg := config.Default("/home/user/.notaryclient")

	require.Equal(t, "/home/user/.notaryclient/data", cfg.Wallet.DataDir)
	require.Equal(t, "/home/user/.notaryclient/logs", cfg.Logging.LogDir)
	require.Equal(t, config.DefaultMaxLogFiles, cfg.Logging.MaxLogFiles)
}

func TestLoadOverridesFromIniFile(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "notaryclient.conf")

	err := os.WriteFile(iniPath, []byte("[Wallet]\ndatadir = /custom/data\n\n[Security]\nscryptn = 32768\n"), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(dir, []string{"--configfile", iniPath})
	require.NoError(t, err)
	require.Equal(t, "/custom/data", cfg.Wallet.DataDir)
	require.Equal(t, 32768, cfg.Security.ScryptN)
}

func TestLoadFlagOverridesIniFile(t *testing.T) {
	dir := t.TempDir()
	iniPath := filepath.Join(dir, "notaryclient.conf")

	err := os.WriteFile(iniPath, []byte("[Wallet]\ndatadir = /from/ini\n"), 0o600)
	require.NoError(t, err)

	cfg, err := config.Load(dir, []string{"--configfile", iniPath, "--datadir", "/from/flag"})
	require.NoError(t, err)
	require.Equal(t, "/from/flag", cfg.Wallet.DataDir)
}

func TestLoadWithoutConfigFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir, nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "data"), cfg.Wallet.DataDir)
}
