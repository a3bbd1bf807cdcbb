package tfhe

import (
	"fmt"

	"github.com/tuneinsight/torus/ring"
)

// ModulusSwitch returns round(x * 2^logModulus / 2^W) mod 2^logModulus, ties rounded up.
// logModulus must be in [1, W).
//
// Custom ciphertext moduli are stored in the most significant bits of the torus,
// so the same formula applies to them. Mask and body elements of a ciphertext are
// always switched with this function, which keeps the rounding uniform.
func ModulusSwitch[T ring.Torus](x T, logModulus int) int {
	shift := ring.Bits[T]() - logModulus - 1
	return int((((uint64(x) >> shift) + 1) >> 1) & (1<<logModulus - 1))
}

// ModulusSwitchBack returns the torus element k * 2^(W-logModulus), i.e. the
// value represented by the modulus switched element k.
func ModulusSwitchBack[T ring.Torus](k, logModulus int) T {
	return T(k) << (ring.Bits[T]() - logModulus)
}

// SwitchedLWECiphertext is an LWE ciphertext whose elements have been
// switched to the modulus 2^LogModulus. Mask and Body are in [0, 2^LogModulus).
type SwitchedLWECiphertext struct {
	Mask       []int
	Body       int
	LogModulus int
}

// NewSwitchedLWECiphertext allocates a new [SwitchedLWECiphertext] of dimension n.
func NewSwitchedLWECiphertext(n, logModulus int) *SwitchedLWECiphertext {
	return &SwitchedLWECiphertext{Mask: make([]int, n), LogModulus: logModulus}
}

// LWEDimension returns the dimension n of the mask.
func (ct *SwitchedLWECiphertext) LWEDimension() int {
	return len(ct.Mask)
}

// ModulusSwitchLWEAssign switches all the elements of ct to the modulus 2^out.LogModulus and writes them on out.
func ModulusSwitchLWEAssign[T ring.Torus](ct *LWECiphertext[T], out *SwitchedLWECiphertext) error {

	if ct.LWEDimension() != out.LWEDimension() {
		return fmt.Errorf("cannot ModulusSwitchLWE: %w", ShapeMismatch("LWE dimension", ct.LWEDimension(), out.LWEDimension()))
	}

	if w := ring.Bits[T](); out.LogModulus < 1 || out.LogModulus >= w {
		return fmt.Errorf("cannot ModulusSwitchLWE: invalid LogModulus=%d: must be in [1, %d)", out.LogModulus, w)
	}

	for i, ai := range ct.Mask() {
		out.Mask[i] = ModulusSwitch(ai, out.LogModulus)
	}

	out.Body = ModulusSwitch(ct.Body(), out.LogModulus)

	return nil
}

// ModulusSwitchLWE switches all the elements of ct to the modulus 2^logModulus and returns the result on a new ciphertext.
func ModulusSwitchLWE[T ring.Torus](ct *LWECiphertext[T], logModulus int) (out *SwitchedLWECiphertext, err error) {
	out = NewSwitchedLWECiphertext(ct.LWEDimension(), logModulus)
	return out, ModulusSwitchLWEAssign(ct, out)
}
