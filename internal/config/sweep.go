package config

// Policy selects how per-cell trial sums collapse into one rate per buffer size.
type Policy string

const (
	// PolicyBest reports the best packet size's cumulative rate divided by the
	// run count. Matches the historical Jerasure harness output.
	PolicyBest Policy = "best"
	// PolicyMean averages every trial of every packet size.
	PolicyMean Policy = "mean"
)

// ValidPolicies lists all supported aggregation policies.
var ValidPolicies = []Policy{PolicyBest, PolicyMean}

// SweepConfig describes the two-dimensional parameter grid.
type SweepConfig struct {
	PacketBlockSize int `yaml:"packet_block_size" validate:"min=1"` // P_BLOCK_SIZE, bytes
	BufferBlockSize int `yaml:"buffer_block_size" validate:"min=1"` // B_BLOCK_SIZE, bytes

	// Outer loop: buffer multiplier from BufferStart to BufferEnd inclusive.
	BufferStart int `yaml:"buffer_start" validate:"min=1"`
	BufferEnd   int `yaml:"buffer_end" validate:"min=1"`
	BufferStep  int `yaml:"buffer_step" validate:"min=1"` // R_INC

	// Inner loop: packet multiplier from PacketMin to PacketMax inclusive.
	PacketMin int `yaml:"packet_min" validate:"min=1"`
	PacketMax int `yaml:"packet_max" validate:"min=1"`

	Runs   int    `yaml:"runs" validate:"min=1"` // NUMBER_OF_RUN_TIMES
	Policy Policy `yaml:"policy"`
}

// BufferMultipliers returns the outer-loop values in increasing order.
func (s SweepConfig) BufferMultipliers() []int {
	var out []int
	if s.BufferStep <= 0 {
		return out
	}
	for v := s.BufferStart; v <= s.BufferEnd; v += s.BufferStep {
		out = append(out, v)
	}
	return out
}

// PacketMultipliers returns the inner-loop values in increasing order.
func (s SweepConfig) PacketMultipliers() []int {
	var out []int
	for v := s.PacketMin; v <= s.PacketMax; v++ {
		out = append(out, v)
	}
	return out
}
