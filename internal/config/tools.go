package config

// ToolConfig names one external executable. Args are prepended to the
// contract arguments, which lets a multi-command binary stand in for a tool
// (e.g. "ecref encode").
type ToolConfig struct {
	Binary string   `yaml:"binary" validate:"nonzero"`
	Args   []string `yaml:"args,omitempty"`
}

// ToolsConfig names the four executables driven by a trial.
type ToolsConfig struct {
	Encoder   ToolConfig `yaml:"encoder"`
	Decoder   ToolConfig `yaml:"decoder"`
	EncoderMT ToolConfig `yaml:"encoder_mt"`
	DecoderMT ToolConfig `yaml:"decoder_mt"`

	// DecoderMTCodingArgs passes (K, M, w, packetsize, buffersize) to the
	// multi-threaded decoder after the input file.
	DecoderMTCodingArgs bool `yaml:"decoder_mt_coding_args"`
}

// WorkspaceConfig describes the scratch directory owned by the tools.
type WorkspaceConfig struct {
	// WorkDir is where the tools run; they write into WorkDir/CodingDir.
	WorkDir   string `yaml:"work_dir" validate:"nonzero"`
	CodingDir string `yaml:"coding_dir" validate:"nonzero"`

	// MetadataMarker follows the input stem to form the prefix of files the
	// injector must never erase.
	MetadataMarker string `yaml:"metadata_marker" validate:"nonzero"`

	// DecodedSuffix follows the input stem to name the reconstructed file.
	DecodedSuffix string `yaml:"decoded_suffix" validate:"nonzero"`
}

// ExecutionConfig configures the tactile interface.
type ExecutionConfig struct {
	// Timeout per process ("" = wait forever).
	Timeout string `yaml:"timeout,omitempty"`

	// AllowedEnvVars restricts the environment passed to the tools.
	// Empty means the full harness environment is inherited.
	AllowedEnvVars []string `yaml:"allowed_env_vars,omitempty"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`  // debug, info, warn, error
	Format     string          `yaml:"format"` // json, text
	Categories map[string]bool `yaml:"categories,omitempty"`
}
