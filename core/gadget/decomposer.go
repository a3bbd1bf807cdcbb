// Package gadget implements the signed gadget decomposition of torus elements
// used by the external product.
package gadget

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
)

// Decomposer decomposes torus elements in base 2^BaseLog over Level levels.
//
// A torus element x is first rounded, half up, to the closest multiple of
// 2^(W-BaseLog*Level), then written as sum_{i=1}^{Level} d_i * 2^(W-i*BaseLog)
// with signed digits d_i in [-2^(BaseLog-1), 2^(BaseLog-1)).
// The dropped W-BaseLog*Level least significant bits are the decomposition error.
//
// A Decomposer is a small immutable value, safe for concurrent use.
type Decomposer[T ring.Torus] struct {
	baseLog int
	level   int
	nonRep  int
	mask    T
}

// NewDecomposer creates a new [Decomposer].
// It returns an error if baseLog < 1, level < 1 or baseLog*level > W.
func NewDecomposer[T ring.Torus](baseLog, level int) (Decomposer[T], error) {

	w := ring.Bits[T]()

	if baseLog < 1 || level < 1 || baseLog*level > w {
		return Decomposer[T]{}, fmt.Errorf("cannot NewDecomposer: invalid decomposition: BaseLog=%d * Level=%d must be in [1, %d]", baseLog, level, w)
	}

	return Decomposer[T]{
		baseLog: baseLog,
		level:   level,
		nonRep:  w - baseLog*level,
		mask:    T(1)<<baseLog - 1,
	}, nil
}

// BaseLog returns the log2 of the decomposition base.
func (d Decomposer[T]) BaseLog() int {
	return d.baseLog
}

// Level returns the number of levels of the decomposition.
func (d Decomposer[T]) Level() int {
	return d.level
}

// Gadget returns the weight 2^(W-level*BaseLog) of the given level, for level in [1, Level].
func (d Decomposer[T]) Gadget(level int) T {
	return T(1) << (ring.Bits[T]() - level*d.baseLog)
}

// ClosestRepresentable returns the closest multiple of 2^(W-BaseLog*Level) to x, ties rounded up.
func (d Decomposer[T]) ClosestRepresentable(x T) T {

	if d.nonRep == 0 {
		return x
	}

	res := x >> (d.nonRep - 1)
	res += res & 1
	res >>= 1

	return res << d.nonRep
}

// Decompose writes on digits the decomposition of x: digits[i-1] is the digit of level i,
// of weight 2^(W-i*BaseLog), stored in two's complement.
// A carry out of the most significant level wraps modulo 2^W.
func (d Decomposer[T]) Decompose(x T, digits []T) {

	state := d.ClosestRepresentable(x) >> d.nonRep

	digits = digits[:d.level]

	for i := d.level - 1; i >= 0; i-- {
		digits[i] = d.nextDigit(&state)
	}
}

// Recompose returns sum_{i=1}^{Level} digits[i-1] * 2^(W-i*BaseLog).
func (d Decomposer[T]) Recompose(digits []T) (x T) {
	for i, di := range digits[:d.level] {
		x += di << (ring.Bits[T]() - (i+1)*d.baseLog)
	}
	return
}

// InitState prepares the decomposition of all the elements of in.
// After the call, each successive call to [Decomposer.NextLevel] yields the digits
// of the levels Level, Level-1, ..., 1, in this order.
// in and state can be the same slice.
func (d Decomposer[T]) InitState(in, state []T) {
	state = state[:len(in)]
	for i := range in {
		state[i] = d.ClosestRepresentable(in[i]) >> d.nonRep
	}
}

// NextLevel writes on digits the digits of the next level of the states and advances them.
func (d Decomposer[T]) NextLevel(state, digits []T) {
	digits = digits[:len(state)]
	for i := range state {
		digits[i] = d.nextDigit(&state[i])
	}
}

func (d Decomposer[T]) nextDigit(state *T) T {
	res := *state & d.mask
	*state >>= d.baseLog
	carry := res >> (d.baseLog - 1)
	*state += carry
	return res - carry<<d.baseLog
}
