package ggsw

import (
	"fmt"

	"github.com/tuneinsight/torus/core/gadget"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/scratch"
)

// AddExternalProductAssignScratch returns the scratch requirement of [AddExternalProductAssign]
// for GLWE ciphertexts of dimension k and polynomial size N.
func AddExternalProductAssignScratch[T ring.Torus](k, N int, fft *ring.FFT) scratch.Requirement {
	M := fft.FourierSize()
	state := scratch.ArrayOf[T]((k + 1) * N)
	digits := scratch.ArrayOf[T](N)
	fourierDigits := scratch.ArrayOf[complex128](M)
	fourierAcc := scratch.ArrayOf[complex128]((k + 1) * M)
	return state.And(digits).And(fourierDigits).And(fourierAcc).And(fft.ForwardScratch().Or(fft.BackwardScratch()))
}

// ExternalProductScratch returns the scratch requirement of [ExternalProduct].
func ExternalProductScratch[T ring.Torus](k, N int, fft *ring.FFT) scratch.Requirement {
	return AddExternalProductAssignScratch[T](k, N, fft)
}

// CMuxScratch returns the scratch requirement of [CMuxAssign].
func CMuxScratch[T ring.Torus](k, N int, fft *ring.FFT) scratch.Requirement {
	return AddExternalProductAssignScratch[T](k, N, fft)
}

// AddExternalProductAssign evaluates acc += ggsw * in, where ggsw is a Fourier GGSW ciphertext.
//
// Every polynomial of in is decomposed with the gadget of ggsw. The decomposition levels are
// transformed to the Fourier domain one at a time, from the least significant one, and
// multiplied with the matching rows of ggsw. The k+1 accumulated Fourier polynomials are
// transformed back, rounded to the modulus of ggsw and added to acc.
// acc and in can be the same ciphertext.
//
// The method returns an error wrapping [tfhe.ErrShapeMismatch] or [scratch.ErrScratchTooSmall]
// before any computation if the operands are inconsistent or the stack is too small.
// Otherwise it does not allocate.
func AddExternalProductAssign[T ring.Torus](acc *tfhe.GLWECiphertext[T], ggsw *FourierCiphertext, in *tfhe.GLWECiphertext[T], fft *ring.FFT, stack *scratch.Stack) error {
	if err := externalProduct(acc, ggsw, in, fft, stack, true); err != nil {
		return fmt.Errorf("cannot AddExternalProductAssign: %w", err)
	}
	return nil
}

// ExternalProduct evaluates out = ggsw * in, where ggsw is a Fourier GGSW ciphertext.
// out and in can be the same ciphertext. See [AddExternalProductAssign].
func ExternalProduct[T ring.Torus](out *tfhe.GLWECiphertext[T], ggsw *FourierCiphertext, in *tfhe.GLWECiphertext[T], fft *ring.FFT, stack *scratch.Stack) error {
	if err := externalProduct(out, ggsw, in, fft, stack, false); err != nil {
		return fmt.Errorf("cannot ExternalProduct: %w", err)
	}
	return nil
}

// CMuxAssign evaluates ct0 = ct0 + ggsw * (ct1 - ct0), i.e. an encryption of ct1 if ggsw
// encrypts 1 and of ct0 if ggsw encrypts 0. ct1 is overwritten with ct1 - ct0.
func CMuxAssign[T ring.Torus](ct0, ct1 *tfhe.GLWECiphertext[T], ggsw *FourierCiphertext, fft *ring.FFT, stack *scratch.Stack) error {

	if err := checkExternalProduct[T](ct0, ggsw, ct1, fft, stack); err != nil {
		return fmt.Errorf("cannot CMuxAssign: %w", err)
	}

	ring.SubAssign(ct1.Value, ct0.Value)

	return AddExternalProductAssign(ct0, ggsw, ct1, fft, stack)
}

func checkExternalProduct[T ring.Torus](out *tfhe.GLWECiphertext[T], ggsw *FourierCiphertext, in *tfhe.GLWECiphertext[T], fft *ring.FFT, stack *scratch.Stack) error {

	k, N := ggsw.GLWEDimension, ggsw.PolynomialSize

	if err := ggsw.CheckShape(k, N, ggsw.LevelCount); err != nil {
		return err
	}

	if err := out.CheckShape(k, N); err != nil {
		return err
	}

	if err := in.CheckShape(k, N); err != nil {
		return err
	}

	if fft.PolynomialSize() != N {
		return tfhe.ShapeMismatch("FFT polynomial size", fft.PolynomialSize(), N)
	}

	return stack.Check(AddExternalProductAssignScratch[T](k, N, fft))
}

func externalProduct[T ring.Torus](out *tfhe.GLWECiphertext[T], ggsw *FourierCiphertext, in *tfhe.GLWECiphertext[T], fft *ring.FFT, stack *scratch.Stack, add bool) (err error) {

	if err = checkExternalProduct[T](out, ggsw, in, fft, stack); err != nil {
		return
	}

	dec, err := gadget.NewDecomposer[T](ggsw.BaseLog, ggsw.LevelCount)
	if err != nil {
		return
	}

	k, N, M := ggsw.GLWEDimension, ggsw.PolynomialSize, fft.FourierSize()

	mark := stack.Mark()
	defer stack.Release(mark)

	state := scratch.Take[T](stack, (k+1)*N)
	digits := scratch.Take[T](stack, N)
	fdigits := scratch.Take[complex128](stack, M)
	facc := scratch.Take[complex128](stack, (k+1)*M)

	for i := range facc {
		facc[i] = 0
	}

	// in is fully read before out is written
	dec.InitState(in.Value, state)

	if !add {
		ring.Zero(out.Value)
	}

	for level := ggsw.LevelCount - 1; level >= 0; level-- {
		for j := 0; j <= k; j++ {

			dec.NextLevel(state[j*N:(j+1)*N], digits)

			ring.ToFourier(fft, digits, fdigits)

			for o := 0; o <= k; o++ {
				ring.FourierMulAddAssign(fdigits, ggsw.Poly(level, j, o), facc[o*M:(o+1)*M])
			}
		}
	}

	for o := 0; o <= k; o++ {
		ring.FromFourierAddAssign(fft, facc[o*M:(o+1)*M], out.Poly(o), ggsw.Modulus)
	}

	return
}
