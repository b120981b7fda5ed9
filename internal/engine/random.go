// Package engine - random.go
// Every stochastic decision draws from an injected uniform source so that a
// test can script the outcome of fills, sales and offers.
package engine

import "math/rand"

// Random is a uniform source over [0,1).
type Random interface {
	Float64() float64
}

// NewSeededRandom returns a deterministic source for simulations.
func NewSeededRandom(seed int64) Random {
	return rand.New(rand.NewSource(seed))
}

// FixedRandom replays a scripted sequence, cycling when it runs out.
type FixedRandom struct {
	values []float64
	next   int
}

// NewFixedRandom creates a scripted source. With no values it always returns 0.
func NewFixedRandom(values ...float64) *FixedRandom {
	return &FixedRandom{values: values}
}

// Float64 returns the next scripted value.
func (f *FixedRandom) Float64() float64 {
	if len(f.values) == 0 {
		return 0
	}
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Draws reports how many values have been consumed.
func (f *FixedRandom) Draws() int {
	return f.next
}

func chance(r Random, p float64) bool {
	return r.Float64() < p
}

func between(r Random, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// intBetween is inclusive on both ends.
func intBetween(r Random, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + pickIndex(r, hi-lo+1)
}

func pickIndex(r Random, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}
