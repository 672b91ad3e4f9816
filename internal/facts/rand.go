package facts

import (
	"math/rand/v2"
	"sync"
)

// RandSource picks an index in [0, n). Implementations must be safe for concurrent use.
type RandSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a non-deterministic source backed by the runtime generator.
func DefaultRand() RandSource {
	return globalRand{}
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

// SeededRand returns a deterministic source. A zero seed yields DefaultRand.
func SeededRand(seed uint64) RandSource {
	if seed == 0 {
		return DefaultRand()
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}
