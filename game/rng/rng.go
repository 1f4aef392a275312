package rng

import (
	"crypto/rand"
	"encoding/binary"
	mathrand "math/rand"
)

// Source is a deterministic random stream derived from a 32-bit seed.
// Two sources built from the same seed yield the same sequence.
type Source struct {
	seed uint32
	r    *mathrand.Rand
}

// New creates a source for the given seed.
func New(seed uint32) *Source {
	return &Source{
		seed: seed,
		r:    mathrand.New(mathrand.NewSource(int64(seed))),
	}
}

// NewSeed draws a seed from the operating system's entropy pool.
func NewSeed() uint32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return uint32(mathrand.Int63())
	}
	return binary.BigEndian.Uint32(buf[:])
}

// Resolve returns *seed when present and a freshly drawn seed otherwise.
func Resolve(seed *uint32) uint32 {
	if seed != nil {
		return *seed
	}
	return NewSeed()
}

// Seed returns the seed the source was built from.
func (s *Source) Seed() uint32 {
	return s.seed
}

// Float64 returns a value in [0, 1).
func (s *Source) Float64() float64 {
	return s.r.Float64()
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.r.Intn(n)
}

// Shuffle performs a Fisher-Yates shuffle over n elements.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.r.Shuffle(n, swap)
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](s *Source, items []T) T {
	return items[s.Intn(len(items))]
}
