// Package ggsw implements GGSW ciphertexts in the coefficient and in the Fourier
// domain, and the external product between a Fourier GGSW ciphertext and a GLWE ciphertext.
package ggsw

import (
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
)

// Ciphertext is a GGSW ciphertext in the coefficient domain: LevelCount * (k+1) GLWE
// ciphertexts, stored contiguously and indexed [level][row][poly][coeff].
type Ciphertext[T ring.Torus] struct {
	Value          []T
	GLWEDimension  int
	PolynomialSize int
	BaseLog        int
	LevelCount     int
	Modulus        ring.Modulus
}

// NewCiphertext allocates a new zero [Ciphertext].
func NewCiphertext[T ring.Torus](k, N, baseLog, level int) *Ciphertext[T] {
	return &Ciphertext[T]{
		Value:          make([]T, level*(k+1)*(k+1)*N),
		GLWEDimension:  k,
		PolynomialSize: N,
		BaseLog:        baseLog,
		LevelCount:     level,
	}
}

// Row returns a view of the GLWE ciphertext of the given row of the given level,
// for level in [0, LevelCount) and row in [0, k].
// The level index l holds the gadget weight 2^(W-(l+1)*BaseLog).
func (ct *Ciphertext[T]) Row(level, row int) tfhe.GLWECiphertext[T] {
	k, N := ct.GLWEDimension, ct.PolynomialSize
	size := (k + 1) * N
	offset := (level*(k+1) + row) * size
	return tfhe.GLWECiphertextFromSlice(ct.Value[offset:offset+size], k, N)
}

// FourierCiphertext is a GGSW ciphertext in the Fourier domain, stored contiguously and
// indexed [level][row][poly][coeff], with N/2 complex coefficients per polynomial.
// It is read-only once filled and can be shared between concurrent external products.
type FourierCiphertext struct {
	Value          []complex128
	GLWEDimension  int
	PolynomialSize int
	BaseLog        int
	LevelCount     int
	Modulus        ring.Modulus
}

// NewFourierCiphertext allocates a new zero [FourierCiphertext].
func NewFourierCiphertext(k, N, baseLog, level int) *FourierCiphertext {
	return &FourierCiphertext{
		Value:          make([]complex128, level*(k+1)*(k+1)*(N>>1)),
		GLWEDimension:  k,
		PolynomialSize: N,
		BaseLog:        baseLog,
		LevelCount:     level,
	}
}

// Poly returns the Fourier polynomial of the given level, row and column,
// for level in [0, LevelCount) and row, col in [0, k].
func (ct *FourierCiphertext) Poly(level, row, col int) []complex128 {
	k, M := ct.GLWEDimension, ct.PolynomialSize>>1
	offset := ((level*(k+1)+row)*(k+1) + col) * M
	return ct.Value[offset : offset+M]
}

// CheckShape returns an error wrapping [tfhe.ErrShapeMismatch] if the ciphertext does not have
// the given GLWE dimension, polynomial size and level count.
func (ct *FourierCiphertext) CheckShape(k, N, level int) error {
	switch {
	case ct.GLWEDimension != k:
		return tfhe.ShapeMismatch("GGSW GLWE dimension", ct.GLWEDimension, k)
	case ct.PolynomialSize != N:
		return tfhe.ShapeMismatch("GGSW polynomial size", ct.PolynomialSize, N)
	case ct.LevelCount != level:
		return tfhe.ShapeMismatch("GGSW level count", ct.LevelCount, level)
	case len(ct.Value) != level*(k+1)*(k+1)*(N>>1):
		return tfhe.ShapeMismatch("GGSW Fourier ciphertext length", len(ct.Value), level*(k+1)*(k+1)*(N>>1))
	}
	return nil
}

// CheckShape returns an error wrapping [tfhe.ErrShapeMismatch] if the ciphertext does not have
// the given GLWE dimension, polynomial size and level count.
func (ct *Ciphertext[T]) CheckShape(k, N, level int) error {
	switch {
	case ct.GLWEDimension != k:
		return tfhe.ShapeMismatch("GGSW GLWE dimension", ct.GLWEDimension, k)
	case ct.PolynomialSize != N:
		return tfhe.ShapeMismatch("GGSW polynomial size", ct.PolynomialSize, N)
	case ct.LevelCount != level:
		return tfhe.ShapeMismatch("GGSW level count", ct.LevelCount, level)
	case len(ct.Value) != level*(k+1)*(k+1)*N:
		return tfhe.ShapeMismatch("GGSW ciphertext length", len(ct.Value), level*(k+1)*(k+1)*N)
	}
	return nil
}
