// Package ring implements arithmetic over the negacyclic torus polynomial ring
// T_W[X]/(X^N+1), where T_W are the unsigned integers of width W read modulo 2^W,
// along with the negacyclic Fourier transform used to multiply its elements.
package ring

import (
	"math"
	"math/bits"
)

// Torus is the set of supported torus element types.
// Arithmetic is the native wrapping arithmetic of the type.
type Torus interface {
	~uint32 | ~uint64
}

// Bits returns the bit-width W of the torus type T.
func Bits[T Torus]() int {
	return bits.OnesCount64(uint64(^T(0)))
}

// Signed returns x read as a centered signed integer in [-2^(W-1), 2^(W-1)).
func Signed[T Torus](x T) int64 {
	shift := 64 - Bits[T]()
	return int64(uint64(x)<<shift) >> shift
}

// TorusToFloat64 returns x read as a centered signed integer, as a float64.
func TorusToFloat64[T Torus](x T) float64 {
	return float64(Signed(x))
}

// Float64ToTorus rounds x to the nearest integer and reduces it modulo 2^W.
// x can be arbitrarily larger than 2^W.
func Float64ToTorus[T Torus](x float64) T {
	two := math.Ldexp(1, Bits[T]())
	r := math.Round(x - math.Round(x/two)*two)
	if r >= two/2 {
		r -= two
	}
	return T(int64(r))
}

// Scale returns the torus element closest to x * 2^W, i.e. the
// encoding of the real x in [-1/2, 1/2) on the discretized torus.
func Scale[T Torus](x float64) T {
	return Float64ToTorus[T](math.Ldexp(x, Bits[T]()))
}
