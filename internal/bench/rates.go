package bench

import "fmt"

// Configuration is one cell of the sweep grid.
type Configuration struct {
	PacketMultiplier int `json:"packet_multiplier"`
	BufferMultiplier int `json:"buffer_multiplier"`
	PacketSize       int `json:"packet_size"`
	BufferSize       int `json:"buffer_size"`
}

func (c Configuration) String() string {
	return fmt.Sprintf("packetsize=%d buffersize=%d", c.PacketSize, c.BufferSize)
}

// Rates holds one value per measured series, in MB/sec.
type Rates struct {
	Encode   float64 `json:"encode"`
	EncodeMT float64 `json:"encode_mt"`
	Decode   float64 `json:"decode"`
	DecodeMT float64 `json:"decode_mt"`
}

// Add returns the per-series sum.
func (r Rates) Add(o Rates) Rates {
	return Rates{
		Encode:   r.Encode + o.Encode,
		EncodeMT: r.EncodeMT + o.EncodeMT,
		Decode:   r.Decode + o.Decode,
		DecodeMT: r.DecodeMT + o.DecodeMT,
	}
}

// Max returns the per-series maximum; each series is independent.
func (r Rates) Max(o Rates) Rates {
	return Rates{
		Encode:   max(r.Encode, o.Encode),
		EncodeMT: max(r.EncodeMT, o.EncodeMT),
		Decode:   max(r.Decode, o.Decode),
		DecodeMT: max(r.DecodeMT, o.DecodeMT),
	}
}

// Div divides every series by n.
func (r Rates) Div(n float64) Rates {
	return Rates{
		Encode:   r.Encode / n,
		EncodeMT: r.EncodeMT / n,
		Decode:   r.Decode / n,
		DecodeMT: r.DecodeMT / n,
	}
}
