package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultListen, cfg.Listen)
	assert.NotEmpty(t, cfg.RPCList)
	assert.Len(t, cfg.JupiterURLs, 2)
	assert.Equal(t, DefaultRaydiumURL, cfg.RaydiumURL)
	assert.Equal(t, DefaultDexScreenerURL, cfg.DexScreenerURL)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GAIA_LISTEN", ":9090")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Listen)
}

func TestLoadFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":7070\"\norca_url: \"https://orca.example.com\"\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
	assert.Equal(t, "https://orca.example.com", cfg.OrcaURL)
	assert.Equal(t, DefaultRaydiumURL, cfg.RaydiumURL, "unset keys keep defaults")
}

func TestLoadRejectsInvalidURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("raydium_url: \"not-a-url\"\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
