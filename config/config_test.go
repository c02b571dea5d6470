package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"markestedt/autom/keyboard"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, 10*time.Millisecond, cfg.Keyboard.Delay())
	assert.Equal(t, 10*time.Millisecond, cfg.Keyboard.Duration())
	assert.Equal(t, 50*time.Millisecond, cfg.Mouse.Click())
	assert.Equal(t, "amixer", cfg.Sound.Tool)
	assert.Equal(t, "pulse", cfg.Sound.Device)
	assert.Equal(t, "Master", cfg.Sound.Control)
	assert.Equal(t, "xset", cfg.Toggles.Tool)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[keyboard]")
	assert.Contains(t, string(data), "delay_ms = 10")
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[keyboard]\ndelay_ms = 25\n\n[web]\nport = 9000\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 25*time.Millisecond, cfg.Keyboard.Delay())
	assert.Equal(t, 10*time.Millisecond, cfg.Keyboard.Duration())
	assert.Equal(t, "127.0.0.1:9000", cfg.Web.Addr())
}

func TestLoadRejectsNegativeDurations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[mouse]\nclick_ms = -1\n"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	cfg.Sound.Device = "default"
	cfg.Log.Level = "debug"
	require.NoError(t, cfg.Save())

	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "default", again.Sound.Device)
	assert.Equal(t, slog.LevelDebug, again.Log.SlogLevel())
}

func TestParseCombo(t *testing.T) {
	cases := map[string][]string{
		"ctrl+shift+v":  {"Ctrl", "Shift", "v"},
		"Win + Left":    {"Win", "Left"},
		"alt+tab":       {"Alt", "\t"},
		"control+enter": {"Ctrl", "\n"},
		"capslock":      {"CapsLock"},
		"ctrl+A":        {"Ctrl", "A"},
	}
	for in, want := range cases {
		got, err := ParseCombo(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "ctrl++v", "ctrl+hyper"} {
		_, err := ParseCombo(in)
		assert.Error(t, err, in)
	}

	_, err := ParseCombo("ctrl+hyper")
	assert.ErrorIs(t, err, keyboard.ErrInvalidKey)
}
