package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("MDVIEW_CONFIG", "")
	for _, key := range []string{"MDVIEW_RENDER_THEME", "MDVIEW_RENDER_WIDTH", "MDVIEW_RENDER_OSC8", "MDVIEW_RENDER_BORING", "MDVIEW_BRIDGE_TARGET", "MDVIEW_TRACE_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return home
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "default", c.Render.Theme)
	assert.Equal(t, 0, c.Render.Width)
	assert.Equal(t, "auto", c.Render.OSC8)
	assert.False(t, c.Render.Boring)
	assert.Equal(t, "stdout", c.Bridge.Target)
	assert.Equal(t, "Error", c.Trace.Level)
}

func TestLoadHomeConfigFile(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "mdview")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	body := "[render]\ntheme = \"nord\"\nwidth = 72\n\n[bridge]\ntarget = \"none\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644))

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "nord", c.Render.Theme)
	assert.Equal(t, 72, c.Render.Width)
	assert.Equal(t, "none", c.Bridge.Target)
	assert.Equal(t, "auto", c.Render.OSC8)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[render]\ntheme = \"nord\"\n"), 0o644))
	t.Setenv("MDVIEW_CONFIG", path)
	t.Setenv("MDVIEW_RENDER_THEME", "dracula")
	t.Setenv("MDVIEW_RENDER_BORING", "true")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dracula", c.Render.Theme)
	assert.True(t, c.Render.Boring)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)
	t.Setenv("MDVIEW_CONFIG", filepath.Join(home, "nope.toml"))
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	ok := Config{Render: RenderConfig{OSC8: "on"}, Trace: TraceConfig{Level: "Debug"}}
	assert.NoError(t, ok.Validate())

	bad := ok
	bad.Render.OSC8 = "sometimes"
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Render.Width = -1
	assert.Error(t, bad.Validate())

	bad = ok
	bad.Trace.Level = "Verbose"
	assert.Error(t, bad.Validate())
}
