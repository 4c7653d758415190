package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
display:
  width: 1920
  height: 1080
  anti-aliasing: msaa-4x
engine:
  tick-rate: 30
  update-workers: 4
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, uint32(1920), cfg.Display.Width)
	assert.Equal(t, uint32(1080), cfg.Display.Height)
	assert.Equal(t, "msaa-4x", cfg.Display.AntiAliasing)
	assert.Equal(t, float32(2.2), cfg.Display.Gamma, "missing keys keep their default")
	assert.True(t, cfg.Display.VSync)
	assert.Equal(t, uint32(30), cfg.Engine.TickRate)
	assert.Equal(t, 4, cfg.Engine.UpdateWorkers)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown key":   "display:\n  colour: red\n",
		"zero width":    "display:\n  width: 0\n",
		"bad gamma":     "display:\n  gamma: -1\n",
		"bad aa":        "display:\n  anti-aliasing: taa\n",
		"zero tick":     "engine:\n  tick-rate: 0\n",
		"neg workers":   "engine:\n  update-workers: -2\n",
		"bad level":     "log:\n  level: chatty\n",
		"malformed doc": "display: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Display.AntiAliasing = "ssaa-2x"
	cfg.Engine.Profiling = true

	data, err := cfg.Marshal()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "lumen.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
