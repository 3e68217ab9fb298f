package random

import (
	"math/rand"
	"sync"
	"time"
)

// Source is a math/rand generator safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a dedicated source. A zero seed means seed from the clock.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

func (s *Source) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Intn(n)
}
