package tfhe

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

// KeyGenerator is a structure that stores the elements required to create new binary secret keys.
type KeyGenerator[T ring.Torus] struct {
	gen *SecretGenerator[T]
}

// NewKeyGenerator creates a new [KeyGenerator] from a seed obtained from seeder.
func NewKeyGenerator[T ring.Torus](seeder sampling.Seeder) (*KeyGenerator[T], error) {
	gen, err := NewSecretGenerator[T](seeder)
	if err != nil {
		return nil, fmt.Errorf("cannot NewKeyGenerator: %w", err)
	}
	return &KeyGenerator[T]{gen: gen}, nil
}

// GenLWESecretKeyNew generates a new binary [LWESecretKey] of dimension n.
func (kgen *KeyGenerator[T]) GenLWESecretKeyNew(n int) (sk *LWESecretKey[T]) {
	sk = NewLWESecretKey[T](n)
	kgen.gen.Read(sk.Value)
	return
}

// GenGLWESecretKeyNew generates a new binary [GLWESecretKey] of k polynomials of size N.
func (kgen *KeyGenerator[T]) GenGLWESecretKeyNew(k, N int) (sk *GLWESecretKey[T]) {
	sk = NewGLWESecretKey[T](k, N)
	kgen.gen.Read(sk.Value)
	return
}
