// Package workload generates the payloads fed to display commands. Generators are
// pure functions of their seed.
package workload

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
)

const (
	alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	lowercase    = "abcdefghijklmnopqrstuvwxyz"
)

// Source produces deterministic payloads.
type Source struct {
	rng *rand.Rand
}

// New returns a source seeded from a name, typically "<benchmark>/<case>".
func New(name string) *Source {
	h := fnv.New64a()
	h.Write([]byte(name))
	seed := h.Sum64()
	return &Source{rng: rand.New(rand.NewPCG(seed, seed>>1|1))}
}

func (s *Source) pick(alphabet string) byte {
	return alphabet[s.rng.IntN(len(alphabet))]
}

func (s *Source) between(lo, hi int) int {
	return lo + s.rng.IntN(hi-lo+1)
}

func choice[T any](s *Source, items []T) T {
	return items[s.rng.IntN(len(items))]
}

// RandomASCII returns size random alphanumeric bytes.
func (s *Source) RandomASCII(size int) []byte {
	out := make([]byte, size)
	for i := range out {
		out[i] = s.pick(alphanumeric)
	}
	return out
}

// Lines returns count lines of 'x' of the given length joined by newlines.
func Lines(count, length int) string {
	line := strings.Repeat("x", length)
	return strings.TrimSuffix(strings.Repeat(line+"\n", count), "\n")
}

// VariedLines returns count lines of random lowercase text, 20 to 120 chars each.
func (s *Source) VariedLines(count int) string {
	var b strings.Builder
	for i := range count {
		if i > 0 {
			b.WriteByte('\n')
		}
		for range s.between(20, 120) {
			b.WriteByte(s.pick(lowercase))
		}
	}
	return b.String()
}
