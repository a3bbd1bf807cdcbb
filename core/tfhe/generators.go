package tfhe

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

const (
	maskSeedContext  = "torus encryption generator mask"
	noiseSeedContext = "torus encryption generator noise"
)

// SecretGenerator is the source of the secret key bits.
type SecretGenerator[T ring.Torus] struct {
	bits *ring.BinarySampler[T]
}

// NewSecretGenerator creates a new [SecretGenerator] from a seed obtained from seeder.
func NewSecretGenerator[T ring.Torus](seeder sampling.Seeder) (*SecretGenerator[T], error) {

	seed, err := seeder.Seed()
	if err != nil {
		return nil, fmt.Errorf("cannot NewSecretGenerator: %w", err)
	}

	prng, err := sampling.NewKeyedPRNG(seed)
	if err != nil {
		return nil, fmt.Errorf("cannot NewSecretGenerator: %w", err)
	}

	return &SecretGenerator[T]{bits: ring.NewBinarySampler[T](prng)}, nil
}

// NextBit returns the next secret bit.
func (g *SecretGenerator[T]) NextBit() T {
	return g.bits.ReadOne()
}

// Read fills p with secret bits.
func (g *SecretGenerator[T]) Read(p []T) {
	g.bits.Read(p)
}

// EncryptionGenerator is the source of the randomness of the encryptions:
// a uniform stream for the masks and a Gaussian stream for the noise.
// The two streams are keyed by two independent seeds derived from a single seed.
type EncryptionGenerator[T ring.Torus] struct {
	modulus ring.Modulus
	mask    *ring.UniformSampler[T]
	noise   *ring.GaussianSampler[T]
}

// NewEncryptionGenerator creates a new [EncryptionGenerator] for the given ciphertext modulus
// from a seed obtained from seeder.
func NewEncryptionGenerator[T ring.Torus](seeder sampling.Seeder, modulus ring.Modulus) (*EncryptionGenerator[T], error) {

	seed, err := seeder.Seed()
	if err != nil {
		return nil, fmt.Errorf("cannot NewEncryptionGenerator: %w", err)
	}

	maskPRNG, err := sampling.NewKeyedPRNG(sampling.DeriveSeed(seed, maskSeedContext))
	if err != nil {
		return nil, fmt.Errorf("cannot NewEncryptionGenerator: %w", err)
	}

	noisePRNG, err := sampling.NewKeyedPRNG(sampling.DeriveSeed(seed, noiseSeedContext))
	if err != nil {
		return nil, fmt.Errorf("cannot NewEncryptionGenerator: %w", err)
	}

	return &EncryptionGenerator[T]{
		modulus: modulus,
		mask:    ring.NewUniformSampler[T](maskPRNG, modulus),
		noise:   ring.NewGaussianSampler[T](noisePRNG, 1, modulus),
	}, nil
}

// FillMask fills p with uniform torus elements.
func (g *EncryptionGenerator[T]) FillMask(p []T) {
	g.mask.Read(p)
}

// NextNoise returns a Gaussian torus element of the given standard deviation.
func (g *EncryptionGenerator[T]) NextNoise(stdDev float64) T {
	return ring.RoundToModulus(ring.Scale[T](stdDev*g.noise.NormFloat64()), g.modulus)
}

// AddNoise adds to p Gaussian torus elements of the given standard deviation.
func (g *EncryptionGenerator[T]) AddNoise(p []T, stdDev float64) {
	for i := range p {
		p[i] += g.NextNoise(stdDev)
	}
}
