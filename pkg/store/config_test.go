package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/palette/pkg/palette"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PALETTE_CONFIG_PATH", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, palette.ModeSync, cfg.Mode)
	assert.Equal(t, 1, cfg.MinLength)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 8, cfg.MaxResults)
	assert.True(t, filepath.IsAbs(cfg.BasePath()), "home directory is expanded: %s", cfg.BasePath())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	body := "path: " + filepath.Join(dir, "db") + "\nmode: async\nmin_length: 2\ndebounce: 300ms\nmax_results: 5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".palette.yaml"), []byte(body), 0o644))
	t.Setenv("PALETTE_CONFIG_PATH", dir)
	t.Setenv("PALETTE_MAX_RESULTS", "3")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "db"), cfg.Path)
	assert.Equal(t, palette.ModeAsync, cfg.Mode)
	assert.Equal(t, 2, cfg.MinLength)
	assert.Equal(t, 300*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 3, cfg.MaxResults, "environment wins over the file")

	async := cfg.AsyncConfig(nil)
	assert.Equal(t, 2, async.MinLength)
	assert.Equal(t, 3, async.MaxResults)
}

func TestLoadConfigRejectsUnknownMode(t *testing.T) {
	t.Setenv("PALETTE_CONFIG_PATH", t.TempDir())
	t.Setenv("PALETTE_MODE", "fuzzy")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown mode")
}
