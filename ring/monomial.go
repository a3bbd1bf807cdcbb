package ring

import (
	"github.com/tuneinsight/torus/utils"
)

// MonomialMulAssign evaluates p = p * X^k mod X^N+1, for any k.
// The rotation is done in place without extra memory.
func MonomialMulAssign[T Torus](p []T, k int) {

	N := len(p)

	k &= 2*N - 1

	if k >= N {
		k -= N
		Neg(p, p)
	}

	if k == 0 {
		return
	}

	// cyclic rotation to the right by k
	reverse(p)
	reverse(p[:k])
	reverse(p[k:])

	// coefficients wrapping around X^N pick up a sign
	for i := 0; i < k; i++ {
		p[i] = -p[i]
	}
}

// MonomialDivAssign evaluates p = p * X^-k mod X^N+1, for any k.
func MonomialDivAssign[T Torus](p []T, k int) {
	N := len(p)
	MonomialMulAssign(p, 2*N-(k&(2*N-1)))
}

// MonomialMul evaluates p2 = p1 * X^k mod X^N+1, for any k.
// If p1 and p2 share the same backing array, the rotation is done in place on p2.
func MonomialMul[T Torus](p1 []T, k int, p2 []T) {

	N := len(p1)
	p2 = p2[:N]

	if utils.Alias1D(p1, p2) {
		copy(p2, p1)
		MonomialMulAssign(p2, k)
		return
	}

	k &= 2*N - 1

	neg := k >= N
	if neg {
		k -= N
	}

	for i := 0; i < k; i++ {
		p2[i] = -p1[N-k+i]
	}

	for i := k; i < N; i++ {
		p2[i] = p1[i-k]
	}

	if neg {
		Neg(p2, p2)
	}
}

// MonomialMulSub evaluates p2 = p1 * X^k - p1 mod X^N+1, for any k.
// p1 and p2 must not overlap.
func MonomialMulSub[T Torus](p1 []T, k int, p2 []T) {
	MonomialMul(p1, k, p2)
	SubAssign(p2, p1)
}

func reverse[T Torus](p []T) {
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
}
