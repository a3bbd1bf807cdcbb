package blindrot

import (
	"fmt"

	"github.com/tuneinsight/torus/core/ggsw"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/scratch"
)

// BootstrapKey is a bootstrapping key in the coefficient domain: the i-th GGSW
// ciphertext encrypts the i-th bit of the LWE secret key under the GLWE secret key.
type BootstrapKey[T ring.Torus] struct {
	Value []*ggsw.Ciphertext[T]
}

// FourierBootstrapKey is a bootstrapping key in the Fourier domain.
// It is read-only once filled and is shared by all the evaluators.
type FourierBootstrapKey struct {
	Value []*ggsw.FourierCiphertext
}

// NewBootstrapKey allocates a new zero [BootstrapKey].
func NewBootstrapKey[T ring.Torus](params tfhe.Parameters) *BootstrapKey[T] {
	bsk := &BootstrapKey[T]{Value: make([]*ggsw.Ciphertext[T], params.LWEDimension())}
	for i := range bsk.Value {
		bsk.Value[i] = ggsw.NewCiphertext[T](params.GLWEDimension(), params.PolynomialSize(), params.BaseLog(), params.LevelCount())
	}
	return bsk
}

// NewFourierBootstrapKey allocates a new zero [FourierBootstrapKey].
func NewFourierBootstrapKey(params tfhe.Parameters) *FourierBootstrapKey {
	fbsk := &FourierBootstrapKey{Value: make([]*ggsw.FourierCiphertext, params.LWEDimension())}
	for i := range fbsk.Value {
		fbsk.Value[i] = ggsw.NewFourierCiphertext(params.GLWEDimension(), params.PolynomialSize(), params.BaseLog(), params.LevelCount())
	}
	return fbsk
}

// LWEDimension returns the number of GGSW ciphertexts of the key.
func (bsk *BootstrapKey[T]) LWEDimension() int {
	return len(bsk.Value)
}

// LWEDimension returns the number of GGSW ciphertexts of the key.
func (fbsk *FourierBootstrapKey) LWEDimension() int {
	return len(fbsk.Value)
}

// CheckShape returns an error wrapping [tfhe.ErrShapeMismatch] if the key does not hold n
// Fourier GGSW ciphertexts of GLWE dimension k, polynomial size N and of a common level count.
func (fbsk *FourierBootstrapKey) CheckShape(n, k, N int) error {

	if fbsk.LWEDimension() != n {
		return tfhe.ShapeMismatch("bootstrapping key LWE dimension", fbsk.LWEDimension(), n)
	}

	for i, ct := range fbsk.Value {

		if ct == nil {
			return fmt.Errorf("%w: bootstrapping key GGSW %d is nil", tfhe.ErrShapeMismatch, i)
		}

		if err := ct.CheckShape(k, N, fbsk.Value[0].LevelCount); err != nil {
			return fmt.Errorf("bootstrapping key GGSW %d: %w", i, err)
		}

		if ct.BaseLog != fbsk.Value[0].BaseLog {
			return fmt.Errorf("bootstrapping key GGSW %d: %w", i, tfhe.ShapeMismatch("base log", ct.BaseLog, fbsk.Value[0].BaseLog))
		}
	}

	return nil
}

// CheckParameters returns an error wrapping [tfhe.ErrShapeMismatch] if the key does not match
// params: LWE dimension, GLWE dimension, polynomial size, base log and level count.
func (fbsk *FourierBootstrapKey) CheckParameters(params tfhe.Parameters) error {

	if err := fbsk.CheckShape(params.LWEDimension(), params.GLWEDimension(), params.PolynomialSize()); err != nil {
		return err
	}

	if fbsk.LWEDimension() == 0 {
		return nil
	}

	// CheckShape ensures that all the GGSW share the gadget of Value[0].
	ct := fbsk.Value[0]

	if ct.LevelCount != params.LevelCount() {
		return fmt.Errorf("bootstrapping key: %w", tfhe.ShapeMismatch("level count", ct.LevelCount, params.LevelCount()))
	}

	if ct.BaseLog != params.BaseLog() {
		return fmt.Errorf("bootstrapping key: %w", tfhe.ShapeMismatch("base log", ct.BaseLog, params.BaseLog()))
	}

	return nil
}

// GenBootstrapKeyNew generates a new bootstrapping key of lweSK under glweSK:
// the i-th GGSW ciphertext encrypts the i-th bit of lweSK with the GLWE noise of the parameters.
func GenBootstrapKeyNew[T ring.Torus](params tfhe.Parameters, lweSK *tfhe.LWESecretKey[T], glweSK *tfhe.GLWESecretKey[T], enc *ggsw.Encryptor[T]) (bsk *BootstrapKey[T], err error) {

	if lweSK.LWEDimension() != params.LWEDimension() {
		return nil, fmt.Errorf("cannot GenBootstrapKeyNew: %w", tfhe.ShapeMismatch("LWE secret key dimension", lweSK.LWEDimension(), params.LWEDimension()))
	}

	if glweSK.GLWEDimension != params.GLWEDimension() {
		return nil, fmt.Errorf("cannot GenBootstrapKeyNew: %w", tfhe.ShapeMismatch("GLWE secret key dimension", glweSK.GLWEDimension, params.GLWEDimension()))
	}

	if glweSK.PolynomialSize != params.PolynomialSize() {
		return nil, fmt.Errorf("cannot GenBootstrapKeyNew: %w", tfhe.ShapeMismatch("GLWE secret key polynomial size", glweSK.PolynomialSize, params.PolynomialSize()))
	}

	bsk = NewBootstrapKey[T](params)

	for i, si := range lweSK.Value {
		if err = enc.EncryptConstant(glweSK, si, bsk.Value[i], params.GLWEStdDev()); err != nil {
			return nil, fmt.Errorf("cannot GenBootstrapKeyNew: %w", err)
		}
	}

	return
}

// FillWithForwardFourierScratch returns the scratch requirement of [FillWithForwardFourier].
func FillWithForwardFourierScratch(fft *ring.FFT) scratch.Requirement {
	return ggsw.FillWithForwardFourierScratch(fft)
}

// FillWithForwardFourier writes on fbsk the Fourier transform of bsk.
func FillWithForwardFourier[T ring.Torus](fbsk *FourierBootstrapKey, bsk *BootstrapKey[T], fft *ring.FFT, stack *scratch.Stack) error {

	if fbsk.LWEDimension() != bsk.LWEDimension() {
		return fmt.Errorf("cannot FillWithForwardFourier: %w", tfhe.ShapeMismatch("bootstrapping key LWE dimension", fbsk.LWEDimension(), bsk.LWEDimension()))
	}

	for i := range bsk.Value {
		if err := ggsw.FillWithForwardFourier(fbsk.Value[i], bsk.Value[i], fft, stack); err != nil {
			return fmt.Errorf("cannot FillWithForwardFourier: GGSW %d: %w", i, err)
		}
	}

	return nil
}

// NewFourierBootstrapKeyFromKey allocates a new [FourierBootstrapKey] and fills it with the Fourier transform of bsk.
func NewFourierBootstrapKeyFromKey[T ring.Torus](params tfhe.Parameters, bsk *BootstrapKey[T], fft *ring.FFT) (fbsk *FourierBootstrapKey, err error) {
	fbsk = NewFourierBootstrapKey(params)
	buf := scratch.NewBuffersFor(FillWithForwardFourierScratch(fft))
	return fbsk, FillWithForwardFourier(fbsk, bsk, fft, buf.Stack())
}
