// Package random provides the randomness used for card sampling, orientation
// flips, and phrase selection. Keeping it behind one seedable source lets
// tests inject determinism without changing call sites.
package random

import (
	"math/rand/v2"
	"sync"
)

// Source is the minimal surface the rest of the service needs.
// Implementations must be safe for concurrent use.
type Source interface {
	IntN(n int) int
	Perm(n int) []int
}

// Locked wraps a *rand.Rand with a mutex so it can be shared across request
// goroutines.
type Locked struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New returns a Locked source with a non-deterministic seed.
func New() *Locked {
	return &Locked{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
}

// NewSeeded returns a Locked source with a fixed seed (used by tests).
func NewSeeded(seed uint64) *Locked {
	return &Locked{r: rand.New(rand.NewPCG(seed, 0))}
}

func (l *Locked) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *Locked) Perm(n int) []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Perm(n)
}

// Pick returns a uniformly random element of items.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}
