// Package rng provides the seeded pseudo-random source used by the match
// engine. Every consumer receives the source explicitly; there is no package
// level generator.
package rng

import (
	"fmt"
	"unicode/utf16"
)

const (
	fnvOffset uint32 = 2166136261
	fnvPrime  uint32 = 16777619

	// zeroStateSeed replaces a zero seed so the stream is never degenerate.
	zeroStateSeed uint32 = 0x6d2b79f5
	increment     uint32 = 0x6d2b79f5

	golden  uint32 = 0x9e3779b1
	mixMul1 uint32 = 0x85ebca6b
	mixMul2 uint32 = 0xc2b2ae35

	twoPow32 = 4294967296.0
)

// Rand is the subset of a random source the engine depends on.
type Rand interface {
	// Next returns a float in [0, 1).
	Next() float64
	// Int returns an integer in [min, max], both inclusive.
	Int(min, max int) int
}

// HashSeed truncates a numeric seed to 32 bits.
func HashSeed(n int64) uint32 {
	return uint32(n)
}

// HashString folds a string into 32 bits with FNV-1a over its UTF-16 code
// units.
func HashString(s string) uint32 {
	hash := fnvOffset
	for _, unit := range utf16.Encode([]rune(s)) {
		hash ^= uint32(unit)
		hash *= fnvPrime
	}
	return hash
}

// DeriveSeed mixes a base seed with a match index into an independent-looking
// sub-seed.
func DeriveSeed(base uint32, index int) uint32 {
	y := uint32(index + 1)
	mixed := base ^ (y * golden)
	mixed ^= mixed >> 16
	mixed *= mixMul1
	mixed ^= mixed >> 13
	mixed *= mixMul2
	mixed ^= mixed >> 16
	return mixed
}

// Source is a small, fast 32-bit generator. It is not safe for concurrent use;
// each match owns its own Source.
type Source struct {
	state uint32
}

// New creates a source from a 32-bit seed.
func New(seed uint32) *Source {
	if seed == 0 {
		seed = zeroStateSeed
	}
	return &Source{state: seed}
}

// Next returns the next float in [0, 1).
func (s *Source) Next() float64 {
	s.state += increment
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / twoPow32
}

// Int returns an integer in [min, max]. It panics if max < min.
func (s *Source) Int(min, max int) int {
	if max < min {
		panic(fmt.Sprintf("rng: invalid int range %d..%d", min, max))
	}
	span := max - min + 1
	return min + int(s.Next()*float64(span))
}

// Pick returns a uniformly chosen element, or false when items is empty.
func Pick[T any](r Rand, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[r.Int(0, len(items)-1)], true
}

// Shuffle permutes items in place (Fisher-Yates, walking from the tail).
func Shuffle[T any](r Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := r.Int(0, i)
		items[i], items[j] = items[j], items[i]
	}
}
