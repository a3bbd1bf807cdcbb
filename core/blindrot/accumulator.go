package blindrot

import (
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils"
)

// NewAccumulator returns the trivial GLWE encryption, of dimension k and polynomial size N,
// of the test polynomial whose i-th coefficient is f(i).
func NewAccumulator[T ring.Torus](k, N int, f func(i int) T) (acc *tfhe.GLWECiphertext[T]) {
	acc = tfhe.NewGLWECiphertext[T](k, N)
	body := acc.Body()
	for i := range body {
		body[i] = f(i)
	}
	return
}

// NewIdentityAccumulator returns the trivial GLWE encryption of the test polynomial whose
// i-th coefficient is i * 2^(W-1-log2(N)). Blind rotating it by the phase m of a modulus
// switched ciphertext, for m in [0, N), yields m/2N on the constant coefficient.
func NewIdentityAccumulator[T ring.Torus](k, N int) *tfhe.GLWECiphertext[T] {
	shift := ring.Bits[T]() - 1 - utils.Log2(uint(N))
	return NewAccumulator(k, N, func(i int) T {
		return T(i) << shift
	})
}
