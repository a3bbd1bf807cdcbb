// Package blindrot implements the blind rotation of a GLWE accumulator by the phase
// of a modulus switched LWE ciphertext, and the bootstrapping built on top of it.
package blindrot

import (
	"fmt"

	"github.com/tuneinsight/torus/core/ggsw"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils"
	"github.com/tuneinsight/torus/utils/scratch"
)

// BlindRotateAssignScratch returns the scratch requirement of [BlindRotateAssign]
// for accumulators of GLWE dimension k and polynomial size N.
func BlindRotateAssignScratch[T ring.Torus](k, N int, fft *ring.FFT) scratch.Requirement {
	// acc * X^a_i - acc
	return scratch.ArrayOf[T]((k + 1) * N).
		And(ggsw.AddExternalProductAssignScratch[T](k, N, fft))
}

// BlindRotateAssign rotates acc by X^-phase, where phase = b - <a, s> is the phase modulo 2N
// of the modulus switched LWE ciphertext msed and s the LWE secret key encrypted by fbsk.
//
// The accumulator is first divided by X^b. Then for each mask element a_i, the accumulator is
// replaced by a CMux, controlled by the i-th bootstrapping key GGSW, between acc and acc * X^a_i.
// Mask elements equal to zero are skipped since both branches coincide.
//
// The key, the shapes and the stack are validated before acc is modified: on error acc is untouched.
func BlindRotateAssign[T ring.Torus](acc *tfhe.GLWECiphertext[T], msed *tfhe.SwitchedLWECiphertext, fbsk *FourierBootstrapKey, fft *ring.FFT, stack *scratch.Stack) (err error) {

	k, N := acc.GLWEDimension, acc.PolynomialSize

	if err = checkBlindRotate[T](acc, msed, fbsk, fft, stack); err != nil {
		return fmt.Errorf("cannot BlindRotateAssign: %w", err)
	}

	mark := stack.Mark()
	defer stack.Release(mark)

	tmp := tfhe.GLWECiphertextFromSlice(scratch.Take[T](stack, (k+1)*N), k, N)

	for o := 0; o <= k; o++ {
		ring.MonomialDivAssign(acc.Poly(o), msed.Body)
	}

	for i, ai := range msed.Mask {

		if ai == 0 {
			continue
		}

		for o := 0; o <= k; o++ {
			ring.MonomialMulSub(acc.Poly(o), ai, tmp.Poly(o))
		}

		if err = ggsw.AddExternalProductAssign(acc, fbsk.Value[i], &tmp, fft, stack); err != nil {
			// unreachable after checkBlindRotate
			panic(err)
		}
	}

	return
}

func checkBlindRotate[T ring.Torus](acc *tfhe.GLWECiphertext[T], msed *tfhe.SwitchedLWECiphertext, fbsk *FourierBootstrapKey, fft *ring.FFT, stack *scratch.Stack) error {

	k, N := acc.GLWEDimension, acc.PolynomialSize

	if err := acc.CheckShape(k, N); err != nil {
		return err
	}

	if !utils.IsPowerOfTwo(N) {
		return fmt.Errorf("%w: accumulator polynomial size %d is not a power of two", tfhe.ErrShapeMismatch, N)
	}

	if logModulus := utils.Log2(uint(2 * N)); msed.LogModulus != logModulus {
		return tfhe.ShapeMismatch("switched LWE log modulus", msed.LogModulus, logModulus)
	}

	if err := fbsk.CheckShape(msed.LWEDimension(), k, N); err != nil {
		return err
	}

	if fft.PolynomialSize() != N {
		return tfhe.ShapeMismatch("FFT polynomial size", fft.PolynomialSize(), N)
	}

	return stack.Check(BlindRotateAssignScratch[T](k, N, fft))
}

// BootstrapScratch returns the scratch requirement of a bootstrapping: the modulus switch
// and the sample extraction run in place and the blind rotation dominates.
func BootstrapScratch[T ring.Torus](k, N int, fft *ring.FFT) scratch.Requirement {
	return BlindRotateAssignScratch[T](k, N, fft)
}
