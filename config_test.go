package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "floornav.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 600*time.Millisecond, cfg.SegmentDuration())
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval())
	assert.Equal(t, DefaultLabels(), cfg.Labels)
	assert.Zero(t, cfg.Route.SimplifyEpsilon)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = "127.0.0.1:9000"

[map]
path = "floors/ground.json"

[motion]
segment_ms = 250

[labels]
navigate = "go"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "floors/ground.json", cfg.Map.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.SegmentDuration())
	assert.Equal(t, 16*time.Millisecond, cfg.FrameInterval())
	assert.Equal(t, "go", cfg.Labels.Navigate)
	assert.Equal(t, "choose a start", cfg.Labels.ChooseStart)
}

func TestLoadConfigSanitizesValues(t *testing.T) {
	path := writeConfig(t, `
[motion]
segment_ms = 0
frame_ms = -5

[pick]
radius = -1

[route]
simplify_epsilon = -2

[session]
events_per_second = 0
burst = 0

[labels]
placeholder = ""
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Motion, cfg.Motion)
	assert.Equal(t, def.Pick, cfg.Pick)
	assert.Zero(t, cfg.Route.SimplifyEpsilon)
	assert.Equal(t, def.Session, cfg.Session)
	assert.Equal(t, "-", cfg.Labels.Placeholder)
}

func TestLoadConfigParseError(t *testing.T) {
	path := writeConfig(t, "[server\naddr = ")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
