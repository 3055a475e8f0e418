package domain

import (
	"math/rand/v2"
	"sync"
)

// Rand is the random source consumed by stochastic scoring and by auto
// telemetry generation. It is injected so tests can seed or count
// draws; production wiring shares one source process-wide.
type Rand interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

// SystemRand draws from the goroutine-safe global math/rand/v2 source.
type SystemRand struct{}

func (SystemRand) Float64() float64 { return rand.Float64() }
func (SystemRand) IntN(n int) int   { return rand.IntN(n) }

// seededRand is a mutex-guarded seeded source. *rand.Rand is not safe
// for concurrent use, so all draws serialize on the mutex.
type seededRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRand returns a reproducible, goroutine-safe random source.
func NewSeededRand(seed uint64) Rand {
	return &seededRand{r: rand.New(rand.NewPCG(seed, seed))}
}

func (s *seededRand) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

func (s *seededRand) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}
