package ring

import (
	"errors"
	"fmt"
	"math"

	"github.com/tuneinsight/torus/utils"
	"github.com/tuneinsight/torus/utils/scratch"
)

// ErrInvalidPolynomialSize is returned when the polynomial size is not a power of two larger than one.
var ErrInvalidPolynomialSize = errors.New("invalid polynomial size")

// FFT is a plan for the negacyclic Fourier transform over polynomials of size N.
//
// A real polynomial of size N modulo X^N+1 is mapped to its evaluations at the
// N/2 roots w^(4k+1), k = 0, ..., N/2-1, of X^N+1 with w = exp(i*pi/N), which
// fully determine it since the evaluations at the remaining roots are their
// conjugates. Products in the ring become point-wise products of the evaluations.
//
// The evaluation is computed by folding the polynomial into N/2 complex values
// a_j = p_j + i*p_(j+N/2), twisting them by w^j and taking a complex FFT of size N/2.
//
// An FFT is immutable after creation and safe for concurrent use.
type FFT struct {
	n      int
	m      int
	twist  []complex128
	roots  []complex128
	iroots []complex128
	perm   []int
}

// NewFFT creates a new [FFT] plan for polynomials of size N.
// N must be a power of two greater or equal to 2.
func NewFFT(N int) (*FFT, error) {

	if N < 2 || !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("cannot NewFFT: %w: N=%d must be a power of two >= 2", ErrInvalidPolynomialSize, N)
	}

	m := N >> 1

	f := &FFT{
		n:      N,
		m:      m,
		twist:  make([]complex128, m),
		roots:  make([]complex128, max(m>>1, 1)),
		iroots: make([]complex128, max(m>>1, 1)),
		perm:   utils.BitReversePermutation(m),
	}

	for j := 0; j < m; j++ {
		s, c := math.Sincos(math.Pi * float64(j) / float64(N))
		f.twist[j] = complex(c, s)
	}

	for j := range f.roots {
		s, c := math.Sincos(2 * math.Pi * float64(j) / float64(m))
		f.roots[j] = complex(c, s)
		f.iroots[j] = complex(c, -s)
	}

	return f, nil
}

// PolynomialSize returns the size N of the polynomials in the coefficient domain.
func (f *FFT) PolynomialSize() int {
	return f.n
}

// FourierSize returns the size N/2 of the polynomials in the Fourier domain.
func (f *FFT) FourierSize() int {
	return f.m
}

// ForwardScratch returns the scratch requirement of [ToFourier].
// The transform runs in the output buffer.
func (f *FFT) ForwardScratch() scratch.Requirement {
	return scratch.Empty()
}

// BackwardScratch returns the scratch requirement of [FromFourierAssign] and [FromFourierAddAssign].
// The transform runs in the input buffer.
func (f *FFT) BackwardScratch() scratch.Requirement {
	return scratch.Empty()
}

// ToFourier writes on out the negacyclic Fourier transform of p.
// The coefficients of p are read as centered signed integers.
func ToFourier[T Torus](f *FFT, p []T, out []complex128) {

	m := f.m
	p, out = p[:f.n], out[:m]

	for j := 0; j < m; j++ {
		out[j] = complex(TorusToFloat64(p[j]), TorusToFloat64(p[j+m])) * f.twist[j]
	}

	f.transform(out, f.roots)
}

// FromFourierAssign writes on out the inverse negacyclic Fourier transform of in,
// rounded to the nearest torus element and then to the modulus.
// The content of in is destroyed.
func FromFourierAssign[T Torus](f *FFT, in []complex128, out []T, modulus Modulus) {

	f.backward(in)

	m := f.m
	out = out[:f.n]

	for j := 0; j < m; j++ {
		out[j] = RoundToModulus(Float64ToTorus[T](real(in[j])), modulus)
		out[j+m] = RoundToModulus(Float64ToTorus[T](imag(in[j])), modulus)
	}
}

// FromFourierAddAssign adds on out the inverse negacyclic Fourier transform of in,
// rounded to the nearest torus element and then to the modulus.
// The content of in is destroyed.
func FromFourierAddAssign[T Torus](f *FFT, in []complex128, out []T, modulus Modulus) {

	f.backward(in)

	m := f.m
	out = out[:f.n]

	for j := 0; j < m; j++ {
		out[j] += RoundToModulus(Float64ToTorus[T](real(in[j])), modulus)
		out[j+m] += RoundToModulus(Float64ToTorus[T](imag(in[j])), modulus)
	}
}

// FourierMulAssign evaluates out = a * b in the Fourier domain.
func FourierMulAssign(a, b, out []complex128) {
	b, out = b[:len(a)], out[:len(a)]
	for i := range a {
		out[i] = a[i] * b[i]
	}
}

// FourierMulAddAssign evaluates out += a * b in the Fourier domain.
func FourierMulAddAssign(a, b, out []complex128) {
	b, out = b[:len(a)], out[:len(a)]
	for i := range a {
		out[i] += a[i] * b[i]
	}
}

// backward computes the inverse complex FFT and removes the twist, scaling by 1/m.
func (f *FFT) backward(a []complex128) {

	m := f.m
	a = a[:m]

	f.transform(a, f.iroots)

	scale := 1 / float64(m)
	for j := 0; j < m; j++ {
		t := f.twist[j]
		a[j] *= complex(real(t)*scale, -imag(t)*scale)
	}
}

// transform computes in place the unnormalized complex FFT of size m of a
// with the iterative radix-2 decimation in time algorithm, where roots[t]
// is the t-th power of the primitive m-th root of unity of the transform.
func (f *FFT) transform(a []complex128, roots []complex128) {

	m := f.m

	utils.BitReverseInPlaceSliceFromTable(a, f.perm)

	for size := 2; size <= m; size <<= 1 {

		half := size >> 1
		step := m / size

		for start := 0; start < m; start += size {

			lo := a[start : start+half]
			hi := a[start+half : start+size]

			for j := range lo {
				u := lo[j]
				v := hi[j] * roots[j*step]
				lo[j] = u + v
				hi[j] = u - v
			}
		}
	}
}
