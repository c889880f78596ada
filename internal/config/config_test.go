package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Compute.UseAutoSmooth)
	assert.Equal(t, 60.0, cfg.Compute.SmoothAngleDeg)
	assert.Equal(t, 1.0, cfg.Compute.LinkAngleDeg)
	assert.True(t, cfg.Compute.Parallel)
	assert.Zero(t, cfg.Compute.Workers)
	assert.Equal(t, 0.0001, cfg.Merge.Distance)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yavne.yaml")
	data := []byte(`
compute:
  smooth_angle: 30
  workers: 8
logging:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 30.0, cfg.Compute.SmoothAngleDeg)
	assert.Equal(t, 8, cfg.Compute.Workers)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Settings the file does not mention keep their defaults.
	assert.True(t, cfg.Compute.UseAutoSmooth)
	assert.Equal(t, 1.0, cfg.Compute.LinkAngleDeg)
	assert.Equal(t, 0.0001, cfg.Merge.Distance)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("compute: [not a map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
