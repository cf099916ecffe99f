package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSamplerDefaultsWithNoPath(t *testing.T) {
	cfg, err := LoadSampler("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSampler(), cfg)
}

func TestLoadSamplerOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sampler.yaml")
	require.NoError(t, os.WriteFile(path, []byte("maxSamples: 5\nmaxTime: 10s\n"), 0o644))

	cfg, err := LoadSampler(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxSamples)
	assert.Equal(t, Duration(10*time.Second), cfg.MaxTime)
}

func TestLoadVerifierDefaultsWithNoPath(t *testing.T) {
	cfg, err := LoadVerifier("")
	require.NoError(t, err)
	assert.Equal(t, DefaultVerifier(), cfg)
}

func TestLoadSamplerMissingFileErrors(t *testing.T) {
	_, err := LoadSampler(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
