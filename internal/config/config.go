// Package config holds the ecbench configuration: coding parameters, the sweep
// grid, the external tool contract and ambient settings. It is loaded from YAML,
// overridden from the environment and validated before a sweep starts.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all ecbench configuration.
type Config struct {
	Coding    CodingConfig    `yaml:"coding"`
	Sweep     SweepConfig     `yaml:"sweep"`
	Tools     ToolsConfig     `yaml:"tools"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	Execution ExecutionConfig `yaml:"execution"`
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
}

// OutputConfig configures result export.
type OutputConfig struct {
	// JSONPath receives the full sweep result when set.
	JSONPath string `yaml:"json_path"`
	// Table prints the summary table after a successful sweep.
	Table bool `yaml:"table"`
}

// DefaultConfig returns the default configuration. The values reproduce the
// stock Jerasure benchmark: (16, 8) Reed-Solomon over GF(2^8), M erasures.
func DefaultConfig() *Config {
	return &Config{
		Coding: CodingConfig{
			K:         16,
			M:         8,
			FieldBits: 8,
			Technique: "reed_sol_van",
			NumErrors: 8,
		},
		Sweep: SweepConfig{
			PacketBlockSize: 2000,
			BufferBlockSize: 10000,
			BufferStart:     5,
			BufferEnd:       1500,
			BufferStep:      100,
			PacketMin:       1,
			PacketMax:       10,
			Runs:            10,
			Policy:          PolicyBest,
		},
		Tools: ToolsConfig{
			Encoder:             ToolConfig{Binary: "encoder"},
			Decoder:             ToolConfig{Binary: "decoder"},
			EncoderMT:           ToolConfig{Binary: "encoderMT2"},
			DecoderMT:           ToolConfig{Binary: "decoderMT2"},
			DecoderMTCodingArgs: true,
		},
		Workspace: WorkspaceConfig{
			WorkDir:        ".",
			CodingDir:      "Coding",
			MetadataMarker: "_m",
			DecodedSuffix:  "_decoded.txt",
		},
		Execution: ExecutionConfig{},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Output: OutputConfig{
			Table: true,
		},
	}
}

// Load loads configuration from a YAML file.
// A missing file yields the defaults; environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		key string
		dst *int
	}{
		{"ECBENCH_K", &c.Coding.K},
		{"ECBENCH_M", &c.Coding.M},
		{"ECBENCH_NUM_ERRORS", &c.Coding.NumErrors},
		{"ECBENCH_RUNS", &c.Sweep.Runs},
	}
	for _, o := range ints {
		v := os.Getenv(o.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", o.key, v, err)
		}
		*o.dst = n
	}

	if v := os.Getenv("ECBENCH_CODING_DIR"); v != "" {
		c.Workspace.CodingDir = v
	}
	if v := os.Getenv("ECBENCH_ENCODER"); v != "" {
		c.Tools.Encoder.Binary = v
	}
	if v := os.Getenv("ECBENCH_DECODER"); v != "" {
		c.Tools.Decoder.Binary = v
	}
	if v := os.Getenv("ECBENCH_ENCODER_MT"); v != "" {
		c.Tools.EncoderMT.Binary = v
	}
	if v := os.Getenv("ECBENCH_DECODER_MT"); v != "" {
		c.Tools.DecoderMT.Binary = v
	}
	if v := os.Getenv("ECBENCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ECBENCH_POLICY"); v != "" {
		c.Sweep.Policy = Policy(v)
	}
	return nil
}

// CodingDirPath returns the absolute-or-relative path of the coding directory
// as seen from the harness process.
func (c *Config) CodingDirPath() string {
	if filepath.IsAbs(c.Workspace.CodingDir) {
		return c.Workspace.CodingDir
	}
	return filepath.Join(c.Workspace.WorkDir, c.Workspace.CodingDir)
}

// GetExecutionTimeout returns the per-process timeout; zero means none.
func (c *Config) GetExecutionTimeout() time.Duration {
	if c.Execution.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Execution.Timeout)
	if err != nil {
		return 0
	}
	return d
}
