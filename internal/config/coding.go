package config

// CodingConfig is fixed for the whole run; it is never swept.
type CodingConfig struct {
	K         int    `yaml:"k" json:"k" validate:"min=1"`                   // data shards
	M         int    `yaml:"m" json:"m" validate:"min=0"`                   // parity shards
	FieldBits int    `yaml:"field_bits" json:"field_bits" validate:"min=1"` // Galois-field symbol width w
	Technique string `yaml:"technique" json:"technique" validate:"nonzero"`

	// NumErrors is the number of shards erased before each decode.
	NumErrors int `yaml:"num_errors" json:"num_errors" validate:"min=0"`
}

// N is the codeword length K + M.
func (c CodingConfig) N() int {
	return c.K + c.M
}
