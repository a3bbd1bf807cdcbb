package tfhe

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

// Encryptor is a structure that encrypts plaintexts into LWE and GLWE ciphertexts under secret keys.
// Plaintexts are torus elements, rounded to the ciphertext modulus before encryption.
//
// An Encryptor holds the state of its random streams and must not be used concurrently.
type Encryptor[T ring.Torus] struct {
	params Parameters
	gen    *EncryptionGenerator[T]
}

// NewEncryptor creates a new [Encryptor] from a seed obtained from seeder.
func NewEncryptor[T ring.Torus](params Parameters, seeder sampling.Seeder) (*Encryptor[T], error) {

	if err := CheckTorus[T](params); err != nil {
		return nil, fmt.Errorf("cannot NewEncryptor: %w", err)
	}

	gen, err := NewEncryptionGenerator[T](seeder, params.CiphertextModulus())
	if err != nil {
		return nil, fmt.Errorf("cannot NewEncryptor: %w", err)
	}

	return &Encryptor[T]{params: params, gen: gen}, nil
}

// Parameters returns the parameters of the encryptor.
func (enc *Encryptor[T]) Parameters() Parameters {
	return enc.params
}

// EncryptLWE encrypts pt on ct under sk, with the LWE noise of the parameters.
func (enc *Encryptor[T]) EncryptLWE(sk *LWESecretKey[T], pt T, ct *LWECiphertext[T]) error {
	return enc.EncryptLWEWithStdDev(sk, pt, ct, enc.params.LWEStdDev())
}

// EncryptLWENew encrypts pt on a new ciphertext under sk, with the LWE noise of the parameters.
func (enc *Encryptor[T]) EncryptLWENew(sk *LWESecretKey[T], pt T) (ct *LWECiphertext[T], err error) {
	ct = NewLWECiphertext[T](sk.LWEDimension())
	return ct, enc.EncryptLWE(sk, pt, ct)
}

// EncryptLWEWithStdDev encrypts pt on ct under sk, with noise of standard deviation stdDev.
func (enc *Encryptor[T]) EncryptLWEWithStdDev(sk *LWESecretKey[T], pt T, ct *LWECiphertext[T], stdDev float64) error {

	if ct.LWEDimension() != sk.LWEDimension() {
		return fmt.Errorf("cannot EncryptLWE: %w", ShapeMismatch("LWE dimension", ct.LWEDimension(), sk.LWEDimension()))
	}

	mask := ct.Mask()
	enc.gen.FillMask(mask)

	body := ring.RoundToModulus(pt, enc.params.CiphertextModulus())
	for i, si := range sk.Value {
		body += mask[i] * si
	}
	body += enc.gen.NextNoise(stdDev)

	ct.SetBody(body)

	return nil
}

// EncryptGLWE encrypts the plaintext polynomial pt on ct under sk, with the GLWE noise of the parameters.
func (enc *Encryptor[T]) EncryptGLWE(sk *GLWESecretKey[T], pt []T, ct *GLWECiphertext[T]) error {

	if len(pt) != ct.PolynomialSize {
		return fmt.Errorf("cannot EncryptGLWE: %w", ShapeMismatch("plaintext size", len(pt), ct.PolynomialSize))
	}

	if err := enc.EncryptZeroGLWE(sk, ct, enc.params.GLWEStdDev()); err != nil {
		return fmt.Errorf("cannot EncryptGLWE: %w", err)
	}

	body := ct.Body()
	m := enc.params.CiphertextModulus()
	for i := range body {
		body[i] += ring.RoundToModulus(pt[i], m)
	}

	return nil
}

// EncryptGLWENew encrypts the plaintext polynomial pt on a new ciphertext under sk, with the GLWE noise of the parameters.
func (enc *Encryptor[T]) EncryptGLWENew(sk *GLWESecretKey[T], pt []T) (ct *GLWECiphertext[T], err error) {
	ct = NewGLWECiphertext[T](sk.GLWEDimension, sk.PolynomialSize)
	return ct, enc.EncryptGLWE(sk, pt, ct)
}

// EncryptZeroGLWE encrypts zero on ct under sk, with noise of standard deviation stdDev.
func (enc *Encryptor[T]) EncryptZeroGLWE(sk *GLWESecretKey[T], ct *GLWECiphertext[T], stdDev float64) error {

	k, N := sk.GLWEDimension, sk.PolynomialSize

	if err := ct.CheckShape(k, N); err != nil {
		return fmt.Errorf("cannot EncryptZeroGLWE: %w", err)
	}

	enc.gen.FillMask(ct.Mask())

	body := ct.Body()
	ring.Zero(body)
	enc.gen.AddNoise(body, stdDev)

	for i := 0; i < k; i++ {
		ring.MulAddAssign(body, ct.Poly(i), sk.Poly(i))
	}

	return nil
}
