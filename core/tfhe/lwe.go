package tfhe

import (
	"slices"

	"github.com/tuneinsight/torus/ring"
)

// LWESecretKey is a secret key of LWE ciphertexts.
type LWESecretKey[T ring.Torus] struct {
	Value []T
}

// NewLWESecretKey allocates a new zero [LWESecretKey] of dimension n.
func NewLWESecretKey[T ring.Torus](n int) *LWESecretKey[T] {
	return &LWESecretKey[T]{Value: make([]T, n)}
}

// LWEDimension returns the dimension of the key.
func (sk *LWESecretKey[T]) LWEDimension() int {
	return len(sk.Value)
}

// LWECiphertext is an LWE ciphertext: n mask elements followed by the body.
type LWECiphertext[T ring.Torus] struct {
	Value []T
}

// NewLWECiphertext allocates a new zero [LWECiphertext] of dimension n.
func NewLWECiphertext[T ring.Torus](n int) *LWECiphertext[T] {
	return &LWECiphertext[T]{Value: make([]T, n+1)}
}

// LWEDimension returns the dimension n of the mask.
func (ct *LWECiphertext[T]) LWEDimension() int {
	return len(ct.Value) - 1
}

// Mask returns the mask of the ciphertext.
func (ct *LWECiphertext[T]) Mask() []T {
	return ct.Value[:len(ct.Value)-1]
}

// Body returns the body of the ciphertext.
func (ct *LWECiphertext[T]) Body() T {
	return ct.Value[len(ct.Value)-1]
}

// SetBody sets the body of the ciphertext.
func (ct *LWECiphertext[T]) SetBody(b T) {
	ct.Value[len(ct.Value)-1] = b
}

// CopyNew returns a deep copy of the ciphertext.
func (ct *LWECiphertext[T]) CopyNew() *LWECiphertext[T] {
	return &LWECiphertext[T]{Value: slices.Clone(ct.Value)}
}

// Equal returns true if the two ciphertexts are equal.
func (ct *LWECiphertext[T]) Equal(other *LWECiphertext[T]) bool {
	return slices.Equal(ct.Value, other.Value)
}
