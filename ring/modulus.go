package ring

import (
	"fmt"
)

// Modulus is the ciphertext modulus q.
//
// The zero value is the native modulus 2^W, for which arithmetic wraps at the
// width of the torus type. A custom modulus 2^LogQ with 0 < LogQ < W is
// represented in the LogQ most significant bits of the torus type: every value is
// a multiple of 2^(W-LogQ), so that arithmetic between ciphertexts still wraps
// natively and only the boundaries (sampling, encoding and rounding out of the
// Fourier domain) branch on the variant.
type Modulus struct {
	LogQ int
}

// NativeModulus returns the native modulus 2^W.
func NativeModulus() Modulus {
	return Modulus{}
}

// CustomModulus returns the custom modulus 2^logQ.
func CustomModulus(logQ int) Modulus {
	return Modulus{LogQ: logQ}
}

// IsNative returns true if the modulus is the native modulus.
func (m Modulus) IsNative() bool {
	return m.LogQ == 0
}

// Bits returns the number of bits of the modulus for the torus type of width w.
func (m Modulus) Bits(w int) int {
	if m.IsNative() {
		return w
	}
	return m.LogQ
}

func (m Modulus) String() string {
	if m.IsNative() {
		return "Native"
	}
	return fmt.Sprintf("Custom(2^%d)", m.LogQ)
}

// CheckModulus returns an error if m is not a valid modulus for the torus type T.
func CheckModulus[T Torus](m Modulus) error {
	if w := Bits[T](); m.LogQ < 0 || m.LogQ >= w {
		return fmt.Errorf("invalid ciphertext modulus 2^%d: must be native or a power of two smaller than 2^%d", m.LogQ, w)
	}
	return nil
}

// RoundToModulus rounds x, half up, to the closest value representable under the modulus m.
func RoundToModulus[T Torus](x T, m Modulus) T {
	if m.IsNative() {
		return x
	}
	shift := Bits[T]() - m.LogQ
	return (((x >> (shift - 1)) + 1) >> 1) << shift
}

// RoundToModulusAssign rounds all the coefficients of p to the modulus m.
func RoundToModulusAssign[T Torus](p []T, m Modulus) {
	if m.IsNative() {
		return
	}
	for i := range p {
		p[i] = RoundToModulus(p[i], m)
	}
}

// MaskToModulus clears the bits of x that are not representable under the modulus m.
func MaskToModulus[T Torus](x T, m Modulus) T {
	if m.IsNative() {
		return x
	}
	shift := Bits[T]() - m.LogQ
	return (x >> shift) << shift
}
