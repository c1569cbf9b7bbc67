package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/armv6-emulator/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Equal(t, uint64(1000000), cfg.Execution.MaxCycles)
	assert.Equal(t, "0x8000", cfg.Execution.Entry)
	assert.True(t, cfg.Processor.AlignmentUBit)
	assert.Equal(t, "log", cfg.Unpredictable.Policy)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000), cfg.Execution.MaxCycles)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[execution]
max_cycles = 500
enable_trace = true

[processor]
high_vectors = true
alignment_u_bit = false
shared_memory = true

[unpredictable]
policy = "halt"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), cfg.Execution.MaxCycles)
	assert.True(t, cfg.Execution.EnableTrace)
	assert.True(t, cfg.Processor.HighVectors)
	assert.False(t, cfg.Processor.AlignmentUBit)
	assert.True(t, cfg.Processor.SharedMemory)
	assert.Equal(t, "halt", cfg.Unpredictable.Policy)
	assert.Equal(t, 16, cfg.Monitor.BytesPerLine, "unset fields keep defaults")
}

func TestLoadInvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[unpredictable]\npolicy = \"explode\"\n"), 0o644))
	_, err := config.Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid unpredictable policy")
}

func TestLoadMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[execution\nmax_cycles = ???"), 0o644))
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")

	cfg := config.DefaultConfig()
	cfg.Execution.MaxCycles = 777
	cfg.Processor.HighVectors = true
	require.NoError(t, cfg.Save(path))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(777), loaded.Execution.MaxCycles)
	assert.True(t, loaded.Processor.HighVectors)
}
