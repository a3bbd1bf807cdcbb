package tfhe

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
)

// Decryptor is a structure used to compute the phase of LWE and GLWE ciphertexts.
// The phase is the plaintext plus the noise of the ciphertext, decoding is left to the caller.
type Decryptor[T ring.Torus] struct {
	params Parameters
}

// NewDecryptor instantiates a new [Decryptor].
func NewDecryptor[T ring.Torus](params Parameters) *Decryptor[T] {
	return &Decryptor[T]{params: params}
}

// DecryptLWE returns the phase b - <a, s> of ct under sk.
func (dec *Decryptor[T]) DecryptLWE(sk *LWESecretKey[T], ct *LWECiphertext[T]) (pt T, err error) {

	if ct.LWEDimension() != sk.LWEDimension() {
		return 0, fmt.Errorf("cannot DecryptLWE: %w", ShapeMismatch("LWE dimension", ct.LWEDimension(), sk.LWEDimension()))
	}

	pt = ct.Body()
	for i, ai := range ct.Mask() {
		pt -= ai * sk.Value[i]
	}

	return pt, nil
}

// DecryptGLWE writes on pt the phase polynomial b - sum a_i * s_i of ct under sk.
func (dec *Decryptor[T]) DecryptGLWE(sk *GLWESecretKey[T], ct *GLWECiphertext[T], pt []T) error {

	k, N := sk.GLWEDimension, sk.PolynomialSize

	if err := ct.CheckShape(k, N); err != nil {
		return fmt.Errorf("cannot DecryptGLWE: %w", err)
	}

	if len(pt) != N {
		return fmt.Errorf("cannot DecryptGLWE: %w", ShapeMismatch("plaintext size", len(pt), N))
	}

	copy(pt, ct.Body())

	for i := 0; i < k; i++ {
		ring.MulSubAssign(pt, ct.Poly(i), sk.Poly(i))
	}

	return nil
}

// DecryptGLWENew returns the phase polynomial of ct under sk.
func (dec *Decryptor[T]) DecryptGLWENew(sk *GLWESecretKey[T], ct *GLWECiphertext[T]) (pt []T, err error) {
	pt = make([]T, ct.PolynomialSize)
	return pt, dec.DecryptGLWE(sk, ct, pt)
}

// Centered returns x read as a centered signed integer.
// It is used to measure the noise of a decrypted phase.
func Centered[T ring.Torus](x T) int64 {
	return ring.Signed(x)
}
