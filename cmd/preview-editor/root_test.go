package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preview-editor/internal/config"
)

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: 24\nlog_level: warn\n"), 0o644))

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--fps", "50", "--open", "a.png", "-w"}))

	v, err := loadViper(path, cmd.Flags())
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.FrameRate)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "a.png", cfg.Open)
	assert.True(t, cfg.WatchSource)
}

func TestUnsetFlagsKeepDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	v, err := loadViper("", cmd.Flags())
	require.NoError(t, err)
	cfg, err := config.Load(v)
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.FrameRate)
	assert.False(t, cfg.WatchSource)
}

func TestMissingConfigFileFails(t *testing.T) {
	cmd := newRootCommand()
	require.NoError(t, cmd.ParseFlags(nil))

	_, err := loadViper(filepath.Join(t.TempDir(), "nope.yaml"), cmd.Flags())
	assert.Error(t, err)
}
