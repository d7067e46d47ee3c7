package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"panechat/internal/errs"
)

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.RetentionCap)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.True(t, cfg.Display.Timestamps)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults written to disk")
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.RetentionCap = 100
	cfg.APIHash = "abc"
	cfg.Display.Compact = true
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := Load(path)
	assert.True(t, errs.Is(errs.Config, err))
}

func TestLoadSanitizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"retention_cap": -5, "history_limit": 0}`), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Zero(t, cfg.RetentionCap)
	assert.Equal(t, 50, cfg.HistoryLimit)
}

func TestPathsShareDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfgPath, err := DefaultPath()
	require.NoError(t, err)
	layoutPath, err := LayoutPath()
	require.NoError(t, err)
	aliasPath, err := AliasesPath()
	require.NoError(t, err)

	assert.Equal(t, filepath.Dir(cfgPath), filepath.Dir(layoutPath))
	assert.Equal(t, filepath.Dir(cfgPath), filepath.Dir(aliasPath))
	assert.Equal(t, "config.json", filepath.Base(cfgPath))
	assert.Equal(t, "layout.json", filepath.Base(layoutPath))
	assert.Equal(t, "aliases.json", filepath.Base(aliasPath))
}
