package erasure

import (
	"math/rand"

	"lukechampine.com/frand"
)

// Source picks an index in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// unseededSource draws from a process-global CSPRNG, so erasure patterns
// differ on every run.
type unseededSource struct{}

func (unseededSource) Intn(n int) int {
	return frand.Intn(n)
}

// DefaultSource returns the non-reproducible source used by the CLI.
func DefaultSource() Source {
	return unseededSource{}
}

// SeededSource returns a reproducible source.
func SeededSource(seed int64) Source {
	return rand.New(rand.NewSource(seed))
}
