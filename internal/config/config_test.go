package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 24, cfg.Coding.N())
	assert.Equal(t, cfg.Coding.M, cfg.Coding.NumErrors)
	assert.Equal(t, PolicyBest, cfg.Sweep.Policy)
}

func TestBufferMultipliers(t *testing.T) {
	s := DefaultConfig().Sweep
	got := s.BufferMultipliers()

	require.Len(t, got, 15)
	assert.Equal(t, 5, got[0])
	assert.Equal(t, 105, got[1])
	assert.Equal(t, 1405, got[len(got)-1])

	s.BufferStart, s.BufferEnd = 30, 30
	assert.Equal(t, []int{30}, s.BufferMultipliers())

	s.BufferStep = 0
	assert.Empty(t, s.BufferMultipliers())
}

func TestPacketMultipliers(t *testing.T) {
	s := DefaultConfig().Sweep
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, s.PacketMultipliers())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"more erasures than parity", func(c *Config) { c.Coding.NumErrors = 9 }, "num_errors"},
		{"bad field width", func(c *Config) { c.Coding.FieldBits = 7 }, "field_bits"},
		{"codeword too long", func(c *Config) { c.Coding.K = 250 }, "k+m"},
		{"zero runs", func(c *Config) { c.Sweep.Runs = 0 }, "Runs"},
		{"inverted buffer range", func(c *Config) { c.Sweep.BufferStart = 2000 }, "buffer_start"},
		{"inverted packet range", func(c *Config) { c.Sweep.PacketMin = 11 }, "packet_min"},
		{"unknown policy", func(c *Config) { c.Sweep.Policy = "median" }, "invalid policy"},
		{"missing encoder", func(c *Config) { c.Tools.Encoder.Binary = "" }, "Binary"},
		{"bad timeout", func(c *Config) { c.Execution.Timeout = "soon" }, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ecbench.yaml")

	cfg := DefaultConfig()
	cfg.Coding.K, cfg.Coding.M, cfg.Coding.NumErrors = 6, 3, 2
	cfg.Sweep.Policy = PolicyMean
	cfg.Tools.Encoder = ToolConfig{Binary: "ecref", Args: []string{"encode"}}
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sweep:\n  runs: 3\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sweep.Runs)
	assert.Equal(t, 2000, cfg.Sweep.PacketBlockSize)
	assert.Equal(t, "encoder", cfg.Tools.Encoder.Binary)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ecbench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sweep: [oops"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestCodingDirPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workspace.WorkDir = "/tmp/bench"
	assert.Equal(t, filepath.Join("/tmp/bench", "Coding"), cfg.CodingDirPath())

	cfg.Workspace.CodingDir = "/scratch/Coding"
	assert.Equal(t, "/scratch/Coding", cfg.CodingDirPath())
}

func TestGetExecutionTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Zero(t, cfg.GetExecutionTimeout())

	cfg.Execution.Timeout = "90s"
	assert.Equal(t, 90*time.Second, cfg.GetExecutionTimeout())
}
