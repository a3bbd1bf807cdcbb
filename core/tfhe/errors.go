package tfhe

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned when the shapes of a key, a ciphertext and the
// parameters of an operation disagree.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeMismatch returns an error wrapping [ErrShapeMismatch] describing the expected and actual value of what.
func ShapeMismatch(what string, have, want int) error {
	return fmt.Errorf("%w: %s: have %d, want %d", ErrShapeMismatch, what, have, want)
}
