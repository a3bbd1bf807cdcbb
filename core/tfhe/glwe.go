package tfhe

import (
	"fmt"
	"slices"

	"github.com/tuneinsight/torus/ring"
)

// GLWESecretKey is a secret key of GLWE ciphertexts: k polynomials of size N stored contiguously.
type GLWESecretKey[T ring.Torus] struct {
	Value          []T
	GLWEDimension  int
	PolynomialSize int
}

// NewGLWESecretKey allocates a new zero [GLWESecretKey].
func NewGLWESecretKey[T ring.Torus](k, N int) *GLWESecretKey[T] {
	return &GLWESecretKey[T]{Value: make([]T, k*N), GLWEDimension: k, PolynomialSize: N}
}

// Poly returns the i-th polynomial of the key.
func (sk *GLWESecretKey[T]) Poly(i int) []T {
	N := sk.PolynomialSize
	return sk.Value[i*N : (i+1)*N]
}

// AsLWESecretKey returns the LWE secret key of dimension k*N of the LWE ciphertexts
// extracted from GLWE ciphertexts under sk. The two keys share the same memory.
func (sk *GLWESecretKey[T]) AsLWESecretKey() *LWESecretKey[T] {
	return &LWESecretKey[T]{Value: sk.Value}
}

// GLWECiphertext is a GLWE ciphertext: k mask polynomials followed by the body
// polynomial, all of size N and stored contiguously.
type GLWECiphertext[T ring.Torus] struct {
	Value          []T
	GLWEDimension  int
	PolynomialSize int
}

// NewGLWECiphertext allocates a new zero [GLWECiphertext].
func NewGLWECiphertext[T ring.Torus](k, N int) *GLWECiphertext[T] {
	return &GLWECiphertext[T]{Value: make([]T, (k+1)*N), GLWEDimension: k, PolynomialSize: N}
}

// GLWECiphertextFromSlice returns a [GLWECiphertext] backed by value, which must have at least (k+1)*N elements.
// It is used to view temporary memory as a ciphertext.
func GLWECiphertextFromSlice[T ring.Torus](value []T, k, N int) GLWECiphertext[T] {
	return GLWECiphertext[T]{Value: value[:(k+1)*N], GLWEDimension: k, PolynomialSize: N}
}

// Poly returns the i-th polynomial of the ciphertext. The body is the polynomial k.
func (ct *GLWECiphertext[T]) Poly(i int) []T {
	N := ct.PolynomialSize
	return ct.Value[i*N : (i+1)*N]
}

// Mask returns the k mask polynomials of the ciphertext.
func (ct *GLWECiphertext[T]) Mask() []T {
	return ct.Value[:ct.GLWEDimension*ct.PolynomialSize]
}

// Body returns the body polynomial of the ciphertext.
func (ct *GLWECiphertext[T]) Body() []T {
	return ct.Poly(ct.GLWEDimension)
}

// CheckShape returns an error wrapping [ErrShapeMismatch] if the ciphertext is not of dimension k and polynomial size N.
func (ct *GLWECiphertext[T]) CheckShape(k, N int) error {
	switch {
	case ct.GLWEDimension != k:
		return ShapeMismatch("GLWE dimension", ct.GLWEDimension, k)
	case ct.PolynomialSize != N:
		return ShapeMismatch("GLWE polynomial size", ct.PolynomialSize, N)
	case len(ct.Value) != (k+1)*N:
		return ShapeMismatch("GLWE ciphertext length", len(ct.Value), (k+1)*N)
	}
	return nil
}

// Copy copies other on the ciphertext.
func (ct *GLWECiphertext[T]) Copy(other *GLWECiphertext[T]) {
	copy(ct.Value, other.Value)
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *GLWECiphertext[T]) CopyNew() *GLWECiphertext[T] {
	return &GLWECiphertext[T]{Value: slices.Clone(ct.Value), GLWEDimension: ct.GLWEDimension, PolynomialSize: ct.PolynomialSize}
}

// Equal returns true if the two ciphertexts are equal.
func (ct *GLWECiphertext[T]) Equal(other *GLWECiphertext[T]) bool {
	return ct.GLWEDimension == other.GLWEDimension && ct.PolynomialSize == other.PolynomialSize && slices.Equal(ct.Value, other.Value)
}

// SampleExtract writes on out the LWE encryption, under the key [GLWESecretKey.AsLWESecretKey],
// of the coefficient nth of the plaintext polynomial of the ciphertext.
func (ct *GLWECiphertext[T]) SampleExtract(nth int, out *LWECiphertext[T]) error {

	k, N := ct.GLWEDimension, ct.PolynomialSize

	if nth < 0 || nth >= N {
		return fmt.Errorf("%w: sample index %d out of range [0, %d)", ErrShapeMismatch, nth, N)
	}

	if out.LWEDimension() != k*N {
		return ShapeMismatch("extracted LWE dimension", out.LWEDimension(), k*N)
	}

	mask := out.Mask()

	// a'_{iN+j} = a_i[nth-j] for j <= nth, -a_i[N+nth-j] otherwise
	for i := 0; i < k; i++ {

		a := ct.Poly(i)
		m := mask[i*N : (i+1)*N]

		for j := 0; j <= nth; j++ {
			m[j] = a[nth-j]
		}

		for j := nth + 1; j < N; j++ {
			m[j] = -a[N+nth-j]
		}
	}

	out.SetBody(ct.Body()[nth])

	return nil
}
