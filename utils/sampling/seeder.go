package sampling

import (
	"fmt"

	"github.com/zeebo/blake3"
)

// SeedSize is the size in bytes of the seeds produced by a [Seeder].
const SeedSize = 32

// Seeder is the provider of seed material. Generators never manage seed
// material themselves: they are always instantiated from a seed obtained
// from a Seeder.
type Seeder interface {
	Seed() ([]byte, error)
}

// SystemSeeder draws seeds from the operating system's secure random source.
type SystemSeeder struct{}

// NewSeeder returns a [Seeder] backed by a [ThreadSafePRNG].
func NewSeeder() *SystemSeeder {
	return &SystemSeeder{}
}

// Seed returns a fresh seed of [SeedSize] bytes.
func (SystemSeeder) Seed() (seed []byte, err error) {
	prng, err := NewPRNG()
	if err != nil {
		return nil, fmt.Errorf("cannot Seed: %w", err)
	}

	seed = make([]byte, SeedSize)
	if _, err = prng.Read(seed); err != nil {
		return nil, fmt.Errorf("cannot Seed: %w", err)
	}

	return
}

// DeterministicSeeder derives a reproducible sequence of seeds from a master seed.
// It must only be used for testing and debugging.
type DeterministicSeeder struct {
	master  []byte
	counter uint64
}

// NewDeterministicSeeder returns a [DeterministicSeeder] keyed by master.
func NewDeterministicSeeder(master []byte) *DeterministicSeeder {
	m := make([]byte, len(master))
	copy(m, master)
	return &DeterministicSeeder{master: m}
}

// Seed returns the next seed of the sequence.
func (s *DeterministicSeeder) Seed() ([]byte, error) {
	seed := DeriveSeed(s.master, fmt.Sprintf("torus seeder %d", s.counter))
	s.counter++
	return seed, nil
}

// DeriveSeed derives a [SeedSize]-byte seed from the input seed material and a context
// string using the blake3 key derivation mode. Distinct contexts yield independent seeds.
func DeriveSeed(material []byte, context string) (seed []byte) {
	seed = make([]byte, SeedSize)
	blake3.DeriveKey(context, material, seed)
	return
}
