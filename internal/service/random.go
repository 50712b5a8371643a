package service

import (
	"math/rand"
	"sync"
	"time"
)

// lockedSource serialises access to a rand.Source so that a single *rand.Rand
// can be shared by the concurrent fetches of the dashboard.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}

// NewRand returns a goroutine-safe generator. Tests pass a fixed seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(&lockedSource{src: rand.NewSource(seed).(rand.Source64)})
}

// NewTimeSeededRand returns a goroutine-safe generator seeded from the clock.
func NewTimeSeededRand() *rand.Rand {
	return NewRand(time.Now().UnixNano())
}
