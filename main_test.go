package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gruntwork-io/go-commons/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robmorgan/cadence/config"
	"github.com/robmorgan/cadence/score"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

// These tests don't run in parallel: the cli package keeps its help templates in package variables that every new
// app writes to.

func TestRunPlaysScoreFromAssetRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "songs", "short.star"), `
song = default_map()
song.set_bpm(600)
song.add_action(beat_action(1, 0, bomb(player())))
`)
	cfgPath := filepath.Join(root, "cadence.yaml")
	writeFile(t, cfgPath, "fps: 100\nstop_after: 4\n")

	err := Run(context.Background(), []string{"-config", cfgPath, "-assets", root, "-score", "songs/short.star"})
	assert.NoError(t, err)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, Run(ctx, nil), "the embedded score loads and cancellation is a clean exit")
}

func TestRunSkipFlag(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "songs", "late.star"), `
song = default_map()
song.set_bpm(600)
song.add_action(beat_action(1, 0, bomb(player())))
song.add_action(beat_action(40, 0, clear_enemies()))
`)

	// skipping past every action leaves nothing to play, so the song finishes straight away
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := Run(ctx, []string{"--assets", root, "--score", "songs/late.star", "--skip", "64"})
	require.NoError(t, err)
	assert.NoError(t, ctx.Err())
}

func TestRunErrors(t *testing.T) {
	root := t.TempDir()
	badCfg := filepath.Join(root, "bad.yaml")
	writeFile(t, badCfg, "fps: -1\n")

	t.Run("bad flag", func(t *testing.T) {
		assert.Error(t, Run(context.Background(), []string{"-nope"}))
	})
	t.Run("bad config", func(t *testing.T) {
		err := Run(context.Background(), []string{"-config", badCfg})
		assert.IsType(t, config.InvalidConfigError{}, errors.Unwrap(err))
	})
	t.Run("bad skip", func(t *testing.T) {
		err := Run(context.Background(), []string{"-skip", "NaN"})
		se, ok := errors.Unwrap(err).(score.ScriptError)
		require.True(t, ok)
		assert.Equal(t, "skip", se.Key)
	})
	t.Run("missing score", func(t *testing.T) {
		err := Run(context.Background(), []string{"-score", "songs/missing.star"})
		assert.IsType(t, score.ScriptError{}, errors.Unwrap(err))
	})
}
