package ring

import (
	"encoding/binary"
	"math"

	"github.com/tuneinsight/torus/utils/sampling"
)

const randomBufferSize = 1024

// randomBuffer buffers the bytes read from a PRNG.
type randomBuffer struct {
	prng sampling.PRNG
	buf  []byte
	ptr  int
}

func newRandomBuffer(prng sampling.PRNG) *randomBuffer {
	return &randomBuffer{prng: prng, buf: make([]byte, randomBufferSize), ptr: randomBufferSize}
}

func (r *randomBuffer) readUint64() uint64 {
	if r.ptr == len(r.buf) {
		if _, err := r.prng.Read(r.buf); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		r.ptr = 0
	}
	x := binary.LittleEndian.Uint64(r.buf[r.ptr : r.ptr+8])
	r.ptr += 8
	return x
}

// UniformSampler samples torus elements uniformly under a ciphertext modulus.
type UniformSampler[T Torus] struct {
	*randomBuffer
	modulus Modulus
}

// NewUniformSampler creates a new [UniformSampler] reading from prng.
func NewUniformSampler[T Torus](prng sampling.PRNG, modulus Modulus) *UniformSampler[T] {
	return &UniformSampler[T]{randomBuffer: newRandomBuffer(prng), modulus: modulus}
}

// ReadOne returns a single uniform torus element.
func (u *UniformSampler[T]) ReadOne() T {
	return MaskToModulus(T(u.readUint64()), u.modulus)
}

// Read fills p with uniform torus elements.
func (u *UniformSampler[T]) Read(p []T) {
	for i := range p {
		p[i] = u.ReadOne()
	}
}

// BinarySampler samples elements in {0, 1}.
type BinarySampler[T Torus] struct {
	*randomBuffer
	word uint64
	left int
}

// NewBinarySampler creates a new [BinarySampler] reading from prng.
func NewBinarySampler[T Torus](prng sampling.PRNG) *BinarySampler[T] {
	return &BinarySampler[T]{randomBuffer: newRandomBuffer(prng)}
}

// ReadOne returns a single uniform bit.
func (b *BinarySampler[T]) ReadOne() T {
	if b.left == 0 {
		b.word = b.readUint64()
		b.left = 64
	}
	bit := T(b.word & 1)
	b.word >>= 1
	b.left--
	return bit
}

// Read fills p with uniform bits.
func (b *BinarySampler[T]) Read(p []T) {
	for i := range p {
		p[i] = b.ReadOne()
	}
}

// GaussianSampler samples centered Gaussian torus elements.
// The standard deviation is relative to the torus, i.e. the sampled real
// value is scaled by 2^W before being rounded to the modulus.
type GaussianSampler[T Torus] struct {
	*randomBuffer
	stdDev  float64
	modulus Modulus
	next    float64
	hasNext bool
}

// NewGaussianSampler creates a new [GaussianSampler] reading from prng.
func NewGaussianSampler[T Torus](prng sampling.PRNG, stdDev float64, modulus Modulus) *GaussianSampler[T] {
	return &GaussianSampler[T]{randomBuffer: newRandomBuffer(prng), stdDev: stdDev, modulus: modulus}
}

// StdDev returns the standard deviation of the sampler.
func (g *GaussianSampler[T]) StdDev() float64 {
	return g.stdDev
}

// WithStdDev returns a sampler sharing the same random stream with a different standard deviation.
// The returned sampler must not be used concurrently with g.
func (g *GaussianSampler[T]) WithStdDev(stdDev float64) *GaussianSampler[T] {
	return &GaussianSampler[T]{randomBuffer: g.randomBuffer, stdDev: stdDev, modulus: g.modulus}
}

// NormFloat64 returns a standard normal sample with the Box-Muller transform.
func (g *GaussianSampler[T]) NormFloat64() float64 {

	if g.hasNext {
		g.hasNext = false
		return g.next
	}

	// u1 in (0, 1], u2 in [0, 1)
	u1 := (float64(g.readUint64()>>11) + 1) * 0x1p-53
	u2 := float64(g.readUint64()>>11) * 0x1p-53

	r := math.Sqrt(-2 * math.Log(u1))
	s, c := math.Sincos(2 * math.Pi * u2)

	g.next = r * s
	g.hasNext = true

	return r * c
}

// ReadOne returns a single Gaussian torus element.
func (g *GaussianSampler[T]) ReadOne() T {
	return RoundToModulus(Scale[T](g.stdDev*g.NormFloat64()), g.modulus)
}

// Read fills p with Gaussian torus elements.
func (g *GaussianSampler[T]) Read(p []T) {
	for i := range p {
		p[i] = g.ReadOne()
	}
}

// ReadAndAdd adds Gaussian torus elements to p.
func (g *GaussianSampler[T]) ReadAndAdd(p []T) {
	for i := range p {
		p[i] += g.ReadOne()
	}
}
