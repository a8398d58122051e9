package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/cadence/asset"
	"github.com/robmorgan/cadence/world"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, asset.DefaultScore, cfg.ScorePath)
	assert.Equal(t, DefaultFPS, cfg.FPS)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, world.Origin(), cfg.Player.Pos())
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cadence.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
asset_root: ./assets
score: songs/boss.star
seed: 42
log_level: debug
player:
  x: 10
  y: -5
stop_after: 64
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "./assets", cfg.AssetRoot)
	assert.Equal(t, "songs/boss.star", cfg.ScorePath)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, DefaultFPS, cfg.FPS, "unset keys keep their defaults")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, world.Pos{X: 10, Y: -5}, cfg.Player.Pos())
	assert.Equal(t, 64.0, cfg.StopAfter)
}

func TestLoadFileMissing(t *testing.T) {
	t.Parallel()

	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFPS, cfg.FPS)
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		yaml  string
		field string
	}{
		{"zero fps", "fps: 0", "fps"},
		{"bad level", "log_level: loud", "log_level"},
		{"empty score", `score: ""`, "score"},
		{"negative stop", "stop_after: -1", "stop_after"},
		{"player off field", "player: {x: 80, y: 0}", "player"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			cfgErr, ok := errors.Unwrap(err).(InvalidConfigError)
			require.True(t, ok, "got %T", errors.Unwrap(err))
			assert.Equal(t, tc.field, cfgErr.Field)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("fixtures: 3"))
	require.Error(t, err)
}
