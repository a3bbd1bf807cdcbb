// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// IsPowerOfTwo returns true if x is a strictly positive power of two.
func IsPowerOfTwo[T constraints.Integer](x T) bool {
	return x > 0 && x&(x-1) == 0
}

// Log2 returns floor(log2(x)) for x > 0 and -1 for x = 0.
func Log2[T constraints.Unsigned](x T) int {
	return bits.Len64(uint64(x)) - 1
}

// Min returns the minimum value of the input values.
func Min[V constraints.Ordered](a, b V) V {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum value of the input values.
func Max[V constraints.Ordered](a, b V) V {
	if a >= b {
		return a
	}
	return b
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64(index, bitLen uint64) uint64 {
	return bits.Reverse64(index) >> (64 - bitLen)
}

// BitReversePermutation returns the table i -> BitReverse(i) for 0 <= i < N.
// N must be a power of two.
func BitReversePermutation(N int) (perm []int) {
	perm = make([]int, N)
	if N < 2 {
		return
	}
	logN := uint64(bits.Len64(uint64(N)) - 1)
	for i := range perm {
		perm[i] = int(BitReverse64(uint64(i), logN))
	}
	return
}
