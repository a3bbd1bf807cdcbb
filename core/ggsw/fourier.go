package ggsw

import (
	"fmt"

	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/scratch"
)

// FillWithForwardFourierScratch returns the scratch requirement of [FillWithForwardFourier].
func FillWithForwardFourierScratch(fft *ring.FFT) scratch.Requirement {
	return fft.ForwardScratch()
}

// FillWithForwardFourier writes on out the Fourier transform of every polynomial of in.
func FillWithForwardFourier[T ring.Torus](out *FourierCiphertext, in *Ciphertext[T], fft *ring.FFT, stack *scratch.Stack) error {

	k, N, level := in.GLWEDimension, in.PolynomialSize, in.LevelCount

	if err := in.CheckShape(k, N, level); err != nil {
		return fmt.Errorf("cannot FillWithForwardFourier: %w", err)
	}

	if err := out.CheckShape(k, N, level); err != nil {
		return fmt.Errorf("cannot FillWithForwardFourier: %w", err)
	}

	if fft.PolynomialSize() != N {
		return fmt.Errorf("cannot FillWithForwardFourier: %w", tfhe.ShapeMismatch("FFT polynomial size", fft.PolynomialSize(), N))
	}

	if err := stack.Check(FillWithForwardFourierScratch(fft)); err != nil {
		return fmt.Errorf("cannot FillWithForwardFourier: %w", err)
	}

	M := fft.FourierSize()
	for i := 0; i < len(in.Value)/N; i++ {
		ring.ToFourier(fft, in.Value[i*N:(i+1)*N], out.Value[i*M:(i+1)*M])
	}

	out.BaseLog = in.BaseLog
	out.Modulus = in.Modulus

	return nil
}
