package placement

import (
	"hash/fnv"
	"slices"
	"strings"
)

// SeedNamespace prefixes the joined key list before hashing
const SeedNamespace = "MemorySpace::BigStars::v1::"

// SeedMode selects how the key list is joined before hashing
type SeedMode uint8

const (
	// SeedSorted hashes a sorted copy of the keys, so config order does not move hotspots
	SeedSorted SeedMode = iota
	// SeedOrdered hashes keys in the given order; matches layouts saved by older clients
	SeedOrdered
)

// String returns the config name of the mode
func (m SeedMode) String() string {
	if m == SeedOrdered {
		return "ordered"
	}
	return "sorted"
}

// Hash32 is the 32-bit FNV-1a hash of s
func Hash32(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Seed derives the generator seed for a key set
func Seed(keys []string, mode SeedMode) uint32 {
	if mode == SeedSorted {
		keys = slices.Clone(keys)
		slices.Sort(keys)
	}
	return Hash32(SeedNamespace + strings.Join(keys, "|"))
}

// Random is the uniform [0,1) source used by placement; *rand.Rand satisfies it
type Random interface {
	Float64() float64
}

// Mulberry32 is a small 32-bit state generator producing floats in [0,1)
type Mulberry32 struct {
	state uint32
}

// NewMulberry32 seeds a generator
func NewMulberry32(seed uint32) *Mulberry32 {
	return &Mulberry32{state: seed}
}

// Uint32 advances the generator
func (m *Mulberry32) Uint32() uint32 {
	m.state += 0x6d2b79f5
	a := m.state
	t := (a ^ a>>15) * (1 | a)
	t = (t + (t^t>>7)*(61|t)) ^ t
	return t ^ t>>14
}

// Float64 returns the next value in [0,1)
func (m *Mulberry32) Float64() float64 {
	return float64(m.Uint32()) / 4294967296
}
