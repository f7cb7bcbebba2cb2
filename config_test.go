package sharedptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvEngine, "  Shim ")
	t.Setenv(EnvShimDir, "/opt/spshim")

	cfg := LoadConfig()
	assert.Equal(t, EngineShim, cfg.Engine)
	assert.Equal(t, "/opt/spshim", cfg.ShimDir)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(EnvEngine, "")
	t.Setenv(EnvShimDir, "")

	cfg := LoadConfig()
	assert.Empty(t, cfg.Engine)

	e, err := cfg.Open()
	require.NoError(t, err)
	assert.Equal(t, Native(), e)
}

func TestConfigRejectsUnknownEngine(t *testing.T) {
	cfg := Config{Engine: "boost"}

	assert.ErrorIs(t, cfg.Validate(), ErrUnknownEngine)

	_, err := cfg.Open()
	assert.ErrorIs(t, err, ErrUnknownEngine)
}

func TestConfigOpenShimMissing(t *testing.T) {
	if _, err := Shim(); err == nil {
		t.Skip("shim is installed; missing-library path not reachable")
	}

	_, err := Config{Engine: EngineShim, ShimDir: t.TempDir()}.Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EngineShim)
}
