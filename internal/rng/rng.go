// Package rng is the explicit randomness handle threaded through effect
// resolution and the multi-step strategies.
package rng

import (
	"math/rand/v2"
	"time"
)

// Source supplies every random draw a pipeline run makes.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// Uniform returns a uniform value in [lo, hi].
	Uniform(lo, hi float64) float64
	// IntRange returns a uniform integer in [lo, hi].
	IntRange(lo, hi int) int
	// Sample picks k distinct items from items.
	Sample(items []string, k int) []string
	// Shuffle permutes n elements in place via swap.
	Shuffle(n int, swap func(i, j int))
}

// Rand implements Source on top of math/rand/v2.
type Rand struct {
	r *rand.Rand
}

// New returns a Source seeded with seed. A zero seed picks one from the clock.
func New(seed uint64) *Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Rand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *Rand) Float64() float64 { return g.r.Float64() }

func (g *Rand) Uniform(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*g.r.Float64()
}

func (g *Rand) IntRange(lo, hi int) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + g.r.IntN(hi-lo+1)
}

func (g *Rand) Sample(items []string, k int) []string {
	if k > len(items) {
		k = len(items)
	}
	if k <= 0 {
		return nil
	}
	pool := append([]string(nil), items...)
	for i := 0; i < k; i++ {
		j := i + g.r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:k]
}

func (g *Rand) Shuffle(n int, swap func(i, j int)) { g.r.Shuffle(n, swap) }
