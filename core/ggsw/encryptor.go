package ggsw

import (
	"fmt"

	"github.com/tuneinsight/torus/core/gadget"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
)

// Encryptor encrypts constants into GGSW ciphertexts.
type Encryptor[T ring.Torus] struct {
	*tfhe.Encryptor[T]
}

// NewEncryptor wraps a [tfhe.Encryptor] into a GGSW [Encryptor].
// The two share the same random streams.
func NewEncryptor[T ring.Torus](enc *tfhe.Encryptor[T]) *Encryptor[T] {
	return &Encryptor[T]{Encryptor: enc}
}

// EncryptConstantNew encrypts the constant c on a new GGSW ciphertext under sk, with the decomposition
// and the GLWE noise of the parameters.
func (enc *Encryptor[T]) EncryptConstantNew(sk *tfhe.GLWESecretKey[T], c T) (ct *Ciphertext[T], err error) {
	params := enc.Parameters()
	ct = NewCiphertext[T](sk.GLWEDimension, sk.PolynomialSize, params.BaseLog(), params.LevelCount())
	return ct, enc.EncryptConstant(sk, c, ct, params.GLWEStdDev())
}

// EncryptConstant encrypts the constant c on ct under sk, with noise of standard deviation stdDev.
//
// The row j of the level l is a GLWE encryption of zero, whose polynomial j is shifted
// by c * 2^(W-(l+1)*BaseLog): for j < k this encrypts -c * 2^(W-(l+1)*BaseLog) * s_j and
// for j = k it encrypts c * 2^(W-(l+1)*BaseLog).
func (enc *Encryptor[T]) EncryptConstant(sk *tfhe.GLWESecretKey[T], c T, ct *Ciphertext[T], stdDev float64) error {

	k, N := sk.GLWEDimension, sk.PolynomialSize

	if err := ct.CheckShape(k, N, ct.LevelCount); err != nil {
		return fmt.Errorf("cannot EncryptConstant: %w", err)
	}

	dec, err := gadget.NewDecomposer[T](ct.BaseLog, ct.LevelCount)
	if err != nil {
		return fmt.Errorf("cannot EncryptConstant: %w", err)
	}

	modulus := enc.Parameters().CiphertextModulus()
	ct.Modulus = modulus

	for l := 0; l < ct.LevelCount; l++ {

		m := ring.RoundToModulus(c*dec.Gadget(l+1), modulus)

		for j := 0; j <= k; j++ {

			row := ct.Row(l, j)

			if err := enc.EncryptZeroGLWE(sk, &row, stdDev); err != nil {
				return fmt.Errorf("cannot EncryptConstant: %w", err)
			}

			row.Poly(j)[0] += m
		}
	}

	return nil
}
