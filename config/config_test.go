package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "marketsim", cfg.ServiceName)
	assert.Equal(t, 200, cfg.Simulation.PoolSize)
	assert.Equal(t, 10, cfg.Simulation.NumProducts)
	assert.Equal(t, int64(500), cfg.Simulation.SweepIntervalMs)
	assert.Nil(t, cfg.TradeFeed)
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	t.Setenv("SIM_POOL_SIZE", "16")

	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := `
service_name: marketsim-test
log_level: debug
simulation:
  pool_size: ${SIM_POOL_SIZE}
  duration_seconds: 30
report_path: out.csv
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "marketsim-test", cfg.ServiceName)
	assert.Equal(t, 16, cfg.Simulation.PoolSize)
	assert.Equal(t, 30, cfg.Simulation.DurationSeconds)
	// Fields the file omits keep their defaults.
	assert.Equal(t, 10, cfg.Simulation.NumProducts)
	assert.Equal(t, "out.csv", cfg.ReportPath)
}

func TestLoadClampsNumProducts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := `
simulation:
  num_products: 0
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Simulation.NumProducts)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
