package config

import (
	"fmt"
	"time"

	"gopkg.in/validator.v2"
)

// ValidFieldBits lists the symbol widths the coding tools accept.
var ValidFieldBits = []int{8, 16, 32}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.validateCrossFields()
}

func (c *Config) validateCrossFields() error {
	cod := c.Coding
	if cod.NumErrors > cod.M {
		return fmt.Errorf("num_errors (%d) exceeds parity shards m (%d): decoding cannot succeed", cod.NumErrors, cod.M)
	}

	validBits := false
	for _, w := range ValidFieldBits {
		if cod.FieldBits == w {
			validBits = true
			break
		}
	}
	if !validBits {
		return fmt.Errorf("field_bits must be one of %v, got %d", ValidFieldBits, cod.FieldBits)
	}
	if cod.FieldBits == 8 && cod.N() > 256 {
		return fmt.Errorf("k+m must be <= 256 for w=8, got %d", cod.N())
	}

	s := c.Sweep
	if s.BufferStart > s.BufferEnd {
		return fmt.Errorf("buffer_start (%d) > buffer_end (%d)", s.BufferStart, s.BufferEnd)
	}
	if s.PacketMin > s.PacketMax {
		return fmt.Errorf("packet_min (%d) > packet_max (%d)", s.PacketMin, s.PacketMax)
	}

	validPolicy := false
	for _, p := range ValidPolicies {
		if s.Policy == p {
			validPolicy = true
			break
		}
	}
	if !validPolicy {
		return fmt.Errorf("invalid policy: %s (valid: %v)", s.Policy, ValidPolicies)
	}

	if c.Execution.Timeout != "" {
		if _, err := time.ParseDuration(c.Execution.Timeout); err != nil {
			return fmt.Errorf("invalid execution timeout %q: %w", c.Execution.Timeout, err)
		}
	}
	return nil
}
