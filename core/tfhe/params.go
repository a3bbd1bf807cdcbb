package tfhe

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils"
)

// ParametersLiteral is a literal representation of the parameters of the bootstrapping kernel.
// It has public fields and is used to express unchecked user-defined parameters literally into
// Go programs or to read them from configuration files.
// The [NewParametersFromLiteral] function is used to generate the actual checked parameters
// from the literal representation.
//
// Standard deviations are relative to the torus, i.e. a value of 2^-40 corresponds
// to a standard deviation of 2^24 on a 64-bit torus.
// A zero CiphertextModulusLog selects the native modulus 2^W.
type ParametersLiteral struct {
	LWEDimension         int     `yaml:"lwe_dimension"`
	GLWEDimension        int     `yaml:"glwe_dimension"`
	PolynomialSize       int     `yaml:"polynomial_size"`
	BaseLog              int     `yaml:"base_log"`
	LevelCount           int     `yaml:"level_count"`
	CiphertextModulusLog int     `json:",omitempty" yaml:"ciphertext_modulus_log,omitempty"`
	LWEStdDev            float64 `yaml:"lwe_std_dev"`
	GLWEStdDev           float64 `yaml:"glwe_std_dev"`
}

// Parameters represents a set of checked parameters of the bootstrapping kernel. Its fields are
// private and immutable. See [ParametersLiteral] for user-specified parameters.
type Parameters struct {
	lweDimension   int
	glweDimension  int
	polynomialSize int
	baseLog        int
	levelCount     int
	modulus        ring.Modulus
	lweStdDev      float64
	glweStdDev     float64
}

// NewParametersFromLiteral instantiates a set of [Parameters] from a [ParametersLiteral] specification.
// It returns the empty parameters [Parameters]{} and a non-nil error if the specified parameters are invalid.
//
// The returned parameters are independent of the width of the torus. Use [CheckTorus] to
// check them against a specific torus type.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	switch {
	case pl.LWEDimension < 1:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid LWEDimension=%d: must be positive", pl.LWEDimension)
	case pl.GLWEDimension < 1:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid GLWEDimension=%d: must be positive", pl.GLWEDimension)
	case pl.PolynomialSize < 2 || !utils.IsPowerOfTwo(pl.PolynomialSize):
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w: PolynomialSize=%d must be a power of two >= 2", ring.ErrInvalidPolynomialSize, pl.PolynomialSize)
	case pl.BaseLog < 1 || pl.LevelCount < 1 || pl.BaseLog*pl.LevelCount > 64:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid decomposition: BaseLog=%d * LevelCount=%d must be in [1, 64]", pl.BaseLog, pl.LevelCount)
	case pl.CiphertextModulusLog < 0 || pl.CiphertextModulusLog >= 64:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid CiphertextModulusLog=%d: must be in [0, 64)", pl.CiphertextModulusLog)
	case pl.LWEStdDev < 0 || pl.GLWEStdDev < 0:
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: invalid standard deviation: LWEStdDev=%v, GLWEStdDev=%v must be non-negative", pl.LWEStdDev, pl.GLWEStdDev)
	}

	return Parameters{
		lweDimension:   pl.LWEDimension,
		glweDimension:  pl.GLWEDimension,
		polynomialSize: pl.PolynomialSize,
		baseLog:        pl.BaseLog,
		levelCount:     pl.LevelCount,
		modulus:        ring.CustomModulus(pl.CiphertextModulusLog),
		lweStdDev:      pl.LWEStdDev,
		glweStdDev:     pl.GLWEStdDev,
	}, nil
}

// CheckTorus returns an error if the parameters cannot be used with the torus type T:
// the ciphertext modulus must fit in T and the decomposition must fit in the modulus.
func CheckTorus[T ring.Torus](p Parameters) error {

	if err := ring.CheckModulus[T](p.modulus); err != nil {
		return fmt.Errorf("cannot CheckTorus: %w", err)
	}

	if bits := p.modulus.Bits(ring.Bits[T]()); p.baseLog*p.levelCount > bits {
		return fmt.Errorf("cannot CheckTorus: invalid decomposition: BaseLog=%d * LevelCount=%d exceeds the %d bits of the ciphertext modulus", p.baseLog, p.levelCount, bits)
	}

	return nil
}

// ParametersLiteral returns the [ParametersLiteral] of the target [Parameters].
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LWEDimension:         p.lweDimension,
		GLWEDimension:        p.glweDimension,
		PolynomialSize:       p.polynomialSize,
		BaseLog:              p.baseLog,
		LevelCount:           p.levelCount,
		CiphertextModulusLog: p.modulus.LogQ,
		LWEStdDev:            p.lweStdDev,
		GLWEStdDev:           p.glweStdDev,
	}
}

// LWEDimension returns the dimension n of the input LWE ciphertexts of the blind rotation.
func (p Parameters) LWEDimension() int {
	return p.lweDimension
}

// GLWEDimension returns the number k of mask polynomials of the GLWE ciphertexts.
func (p Parameters) GLWEDimension() int {
	return p.glweDimension
}

// PolynomialSize returns the size N of the polynomials.
func (p Parameters) PolynomialSize() int {
	return p.polynomialSize
}

// LogPolynomialSize returns log2(N).
func (p Parameters) LogPolynomialSize() int {
	return utils.Log2(uint64(p.polynomialSize))
}

// FourierSize returns the size N/2 of the polynomials in the Fourier domain.
func (p Parameters) FourierSize() int {
	return p.polynomialSize >> 1
}

// BaseLog returns the log2 of the decomposition base.
func (p Parameters) BaseLog() int {
	return p.baseLog
}

// LevelCount returns the number of levels of the decomposition.
func (p Parameters) LevelCount() int {
	return p.levelCount
}

// CiphertextModulus returns the ciphertext modulus.
func (p Parameters) CiphertextModulus() ring.Modulus {
	return p.modulus
}

// LWEStdDev returns the standard deviation of the noise of the LWE encryptions.
func (p Parameters) LWEStdDev() float64 {
	return p.lweStdDev
}

// GLWEStdDev returns the standard deviation of the noise of the GLWE and GGSW encryptions.
func (p Parameters) GLWEStdDev() float64 {
	return p.glweStdDev
}

// ExtractedLWEDimension returns the dimension k*N of the LWE ciphertexts extracted from a GLWE ciphertext.
func (p Parameters) ExtractedLWEDimension() int {
	return p.glweDimension * p.polynomialSize
}

// BlindRotationLogModulus returns log2(2N), the number of bits of the modulus switched LWE ciphertexts.
func (p Parameters) BlindRotationLogModulus() int {
	return p.LogPolynomialSize() + 1
}

// Equal checks two Parameter structs for equality.
func (p Parameters) Equal(other *Parameters) bool {
	return cmp.Equal(p.ParametersLiteral(), other.ParametersLiteral())
}

// MarshalJSON returns a JSON representation of this parameter set. See Marshal from the [encoding/json] package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See Unmarshal from the [encoding/json] package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return err
	}
	*p, err = NewParametersFromLiteral(params)
	return
}
