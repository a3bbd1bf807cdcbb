package tfhe

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

var flagParamString = flag.String("params", "", "specify the test cryptographic parameters as a JSON string. Overrides the default test parameters.")

func testString[T ring.Torus](params Parameters, opname string) string {
	return fmt.Sprintf("%s/W=%d/n=%d/k=%d/N=%d/B=%d/l=%d/q=%s",
		opname,
		ring.Bits[T](),
		params.LWEDimension(),
		params.GLWEDimension(),
		params.PolynomialSize(),
		params.BaseLog(),
		params.LevelCount(),
		params.CiphertextModulus())
}

type testContext[T ring.Torus] struct {
	params Parameters
	kgen   *KeyGenerator[T]
	enc    *Encryptor[T]
	dec    *Decryptor[T]
	lweSK  *LWESecretKey[T]
	glweSK *GLWESecretKey[T]
}

func newTestContext[T ring.Torus](params Parameters) (tc *testContext[T], err error) {

	seeder := sampling.NewDeterministicSeeder([]byte("tfhe test"))

	tc = &testContext[T]{params: params}

	if tc.kgen, err = NewKeyGenerator[T](seeder); err != nil {
		return nil, err
	}

	if tc.enc, err = NewEncryptor[T](params, seeder); err != nil {
		return nil, err
	}

	tc.dec = NewDecryptor[T](params)
	tc.lweSK = tc.kgen.GenLWESecretKeyNew(params.LWEDimension())
	tc.glweSK = tc.kgen.GenGLWESecretKeyNew(params.GLWEDimension(), params.PolynomialSize())

	return
}

// noiseBound returns an 8-sigma bound on the noise of a fresh encryption, including the rounding to the modulus.
func (tc *testContext[T]) noiseBound(stdDev float64) int64 {
	W := ring.Bits[T]()
	bound := int64(8*math.Ldexp(stdDev, W)) + 1
	if m := tc.params.CiphertextModulus(); !m.IsNative() {
		bound += int64(1) << (W - m.LogQ)
	}
	return bound
}

func TestTFHE(t *testing.T) {

	var err error

	paramsLiterals := testInsecure

	if *flagParamString != "" {
		var jsonParams ParametersLiteral
		if err = json.Unmarshal([]byte(*flagParamString), &jsonParams); err != nil {
			t.Fatal(err)
		}
		paramsLiterals = []ParametersLiteral{jsonParams}
	}

	for _, paramsLit := range paramsLiterals {

		var params Parameters
		if params, err = NewParametersFromLiteral(paramsLit); err != nil {
			t.Fatal(err)
		}

		testParameters(t, params)

		runTFHE[uint32](t, params)
		runTFHE[uint64](t, params)
	}

	testUserDefinedParameters(t)
	testModulusSwitch[uint32](t)
	testModulusSwitch[uint64](t)
}

func runTFHE[T ring.Torus](t *testing.T, params Parameters) {

	tc, err := newTestContext[T](params)
	require.NoError(t, err)

	testKeyGenerator(tc, t)
	testEncryptLWE(tc, t)
	testEncryptGLWE(tc, t)
	testSampleExtract(tc, t)
	testShapeMismatch(tc, t)
}

func testParameters(t *testing.T, params Parameters) {

	t.Run(fmt.Sprintf("Parameters/N=%d", params.PolynomialSize()), func(t *testing.T) {

		require.Equal(t, params.PolynomialSize()/2, params.FourierSize())
		require.Equal(t, params.LogPolynomialSize()+1, params.BlindRotationLogModulus())
		require.Equal(t, 1<<params.LogPolynomialSize(), params.PolynomialSize())
		require.Equal(t, params.GLWEDimension()*params.PolynomialSize(), params.ExtractedLWEDimension())

		data, err := json.Marshal(params)
		require.NoError(t, err)

		var paramsNew Parameters
		require.NoError(t, json.Unmarshal(data, &paramsNew))
		require.True(t, params.Equal(&paramsNew))

		other := params.ParametersLiteral()
		other.LevelCount++
		paramsOther, err := NewParametersFromLiteral(other)
		require.NoError(t, err)
		require.False(t, params.Equal(&paramsOther))
	})
}

func testUserDefinedParameters(t *testing.T) {

	t.Run("Parameters/UnmarshalJSON", func(t *testing.T) {
		data := []byte(`{"LWEDimension":630,"GLWEDimension":1,"PolynomialSize":1024,"BaseLog":7,"LevelCount":3,"LWEStdDev":0.000030517578125,"GLWEStdDev":2.98e-8}`)
		var params Parameters
		require.NoError(t, json.Unmarshal(data, &params))
		require.Equal(t, 630, params.LWEDimension())
		require.Equal(t, 11, params.BlindRotationLogModulus())
		require.True(t, params.CiphertextModulus().IsNative())
		require.Equal(t, 0.000030517578125, params.LWEStdDev())
	})

	t.Run("Parameters/Invalid", func(t *testing.T) {

		valid := ParametersLiteral{LWEDimension: 4, GLWEDimension: 1, PolynomialSize: 64, BaseLog: 4, LevelCount: 2}
		_, err := NewParametersFromLiteral(valid)
		require.NoError(t, err)

		for _, f := range []func(pl *ParametersLiteral){
			func(pl *ParametersLiteral) { pl.LWEDimension = 0 },
			func(pl *ParametersLiteral) { pl.GLWEDimension = 0 },
			func(pl *ParametersLiteral) { pl.PolynomialSize = 100 },
			func(pl *ParametersLiteral) { pl.PolynomialSize = 1 },
			func(pl *ParametersLiteral) { pl.BaseLog = 0 },
			func(pl *ParametersLiteral) { pl.LevelCount = 0 },
			func(pl *ParametersLiteral) { pl.BaseLog, pl.LevelCount = 13, 5 },
			func(pl *ParametersLiteral) { pl.CiphertextModulusLog = 64 },
			func(pl *ParametersLiteral) { pl.LWEStdDev = -1 },
		} {
			pl := valid
			f(&pl)
			_, err := NewParametersFromLiteral(pl)
			require.Error(t, err)
		}

		pl := valid
		pl.PolynomialSize = 48
		_, err = NewParametersFromLiteral(pl)
		require.ErrorIs(t, err, ring.ErrInvalidPolynomialSize)
	})

	t.Run("Parameters/CheckTorus", func(t *testing.T) {

		params, err := NewParametersFromLiteral(ParametersLiteral{LWEDimension: 4, GLWEDimension: 1, PolynomialSize: 64, BaseLog: 12, LevelCount: 3})
		require.NoError(t, err)
		require.Error(t, CheckTorus[uint32](params))
		require.NoError(t, CheckTorus[uint64](params))

		params, err = NewParametersFromLiteral(ParametersLiteral{LWEDimension: 4, GLWEDimension: 1, PolynomialSize: 64, BaseLog: 4, LevelCount: 3, CiphertextModulusLog: 40})
		require.NoError(t, err)
		require.Error(t, CheckTorus[uint32](params))
		require.NoError(t, CheckTorus[uint64](params))

		params, err = NewParametersFromLiteral(ParametersLiteral{LWEDimension: 4, GLWEDimension: 1, PolynomialSize: 64, BaseLog: 8, LevelCount: 3, CiphertextModulusLog: 20})
		require.NoError(t, err)
		require.Error(t, CheckTorus[uint32](params))

		_, err = NewEncryptor[uint32](params, sampling.NewSeeder())
		require.Error(t, err)
	})
}

func testKeyGenerator[T ring.Torus](tc *testContext[T], t *testing.T) {

	t.Run(testString[T](tc.params, "KeyGenerator"), func(t *testing.T) {

		for _, s := range tc.lweSK.Value {
			require.LessOrEqual(t, s, T(1))
		}

		for _, s := range tc.glweSK.Value {
			require.LessOrEqual(t, s, T(1))
		}

		require.Len(t, tc.lweSK.Value, tc.params.LWEDimension())
		require.Len(t, tc.glweSK.AsLWESecretKey().Value, tc.params.ExtractedLWEDimension())

		// same seeder, same keys
		kgen, err := NewKeyGenerator[T](sampling.NewDeterministicSeeder([]byte("tfhe test")))
		require.NoError(t, err)
		require.Equal(t, tc.lweSK.Value, kgen.GenLWESecretKeyNew(tc.params.LWEDimension()).Value)
	})
}

func testEncryptLWE[T ring.Torus](tc *testContext[T], t *testing.T) {

	t.Run(testString[T](tc.params, "Encrypt/LWE"), func(t *testing.T) {

		W := ring.Bits[T]()
		bound := tc.noiseBound(tc.params.LWEStdDev())

		for m := 0; m < 16; m++ {

			pt := T(m) << (W - 4)

			ct, err := tc.enc.EncryptLWENew(tc.lweSK, pt)
			require.NoError(t, err)

			if q := tc.params.CiphertextModulus(); !q.IsNative() {
				for _, v := range ct.Value {
					require.Equal(t, v, ring.MaskToModulus(v, q))
				}
			}

			have, err := tc.dec.DecryptLWE(tc.lweSK, ct)
			require.NoError(t, err)

			noise := Centered(have - pt)
			require.LessOrEqual(t, noise, bound)
			require.GreaterOrEqual(t, noise, -bound)
		}

		ct := NewLWECiphertext[T](tc.params.LWEDimension())
		require.NoError(t, tc.enc.EncryptLWEWithStdDev(tc.lweSK, 42<<(W-8), ct, 0))
		have, err := tc.dec.DecryptLWE(tc.lweSK, ct)
		require.NoError(t, err)
		require.Equal(t, ring.RoundToModulus(T(42)<<(W-8), tc.params.CiphertextModulus()), have)

		cpy := ct.CopyNew()
		require.True(t, cpy.Equal(ct))
		cpy.SetBody(cpy.Body() + 1)
		require.False(t, cpy.Equal(ct))
	})
}

func testEncryptGLWE[T ring.Torus](tc *testContext[T], t *testing.T) {

	t.Run(testString[T](tc.params, "Encrypt/GLWE"), func(t *testing.T) {

		W := ring.Bits[T]()
		N := tc.params.PolynomialSize()
		bound := tc.noiseBound(tc.params.GLWEStdDev())

		pt := make([]T, N)
		for i := range pt {
			pt[i] = T(i%16) << (W - 4)
		}

		ct, err := tc.enc.EncryptGLWENew(tc.glweSK, pt)
		require.NoError(t, err)

		have, err := tc.dec.DecryptGLWENew(tc.glweSK, ct)
		require.NoError(t, err)

		for i := range pt {
			noise := Centered(have[i] - pt[i])
			require.LessOrEqual(t, noise, bound)
			require.GreaterOrEqual(t, noise, -bound)
		}

		cpy := ct.CopyNew()
		require.True(t, cpy.Equal(ct))
		view := GLWECiphertextFromSlice(cpy.Value, cpy.GLWEDimension, cpy.PolynomialSize)
		view.Body()[0]++
		require.False(t, cpy.Equal(ct))
		cpy.Copy(ct)
		require.True(t, cpy.Equal(ct))
	})
}

func testSampleExtract[T ring.Torus](tc *testContext[T], t *testing.T) {

	t.Run(testString[T](tc.params, "SampleExtract"), func(t *testing.T) {

		W := ring.Bits[T]()
		N := tc.params.PolynomialSize()
		bound := tc.noiseBound(tc.params.GLWEStdDev())

		pt := make([]T, N)
		for i := range pt {
			pt[i] = T(i%8) << (W - 3)
		}

		ct, err := tc.enc.EncryptGLWENew(tc.glweSK, pt)
		require.NoError(t, err)

		lweSK := tc.glweSK.AsLWESecretKey()
		lwe := NewLWECiphertext[T](tc.params.ExtractedLWEDimension())

		for _, nth := range []int{0, 1, N / 2, N - 1} {
			require.NoError(t, ct.SampleExtract(nth, lwe))
			have, err := tc.dec.DecryptLWE(lweSK, lwe)
			require.NoError(t, err)
			noise := Centered(have - pt[nth])
			require.LessOrEqual(t, noise, bound)
			require.GreaterOrEqual(t, noise, -bound)
		}

		require.ErrorIs(t, ct.SampleExtract(N, lwe), ErrShapeMismatch)
		require.ErrorIs(t, ct.SampleExtract(0, NewLWECiphertext[T](N+1)), ErrShapeMismatch)
	})
}

func testShapeMismatch[T ring.Torus](tc *testContext[T], t *testing.T) {

	t.Run(testString[T](tc.params, "ShapeMismatch"), func(t *testing.T) {

		k, N := tc.params.GLWEDimension(), tc.params.PolynomialSize()

		require.ErrorIs(t, tc.enc.EncryptLWE(tc.lweSK, 0, NewLWECiphertext[T](tc.params.LWEDimension()+1)), ErrShapeMismatch)
		require.ErrorIs(t, tc.enc.EncryptGLWE(tc.glweSK, make([]T, N), NewGLWECiphertext[T](k+1, N)), ErrShapeMismatch)
		require.ErrorIs(t, tc.enc.EncryptGLWE(tc.glweSK, make([]T, N), NewGLWECiphertext[T](k, N/2)), ErrShapeMismatch)

		untouched := NewGLWECiphertext[T](k, N)
		for i := range untouched.Value {
			untouched.Value[i] = T(i + 1)
		}
		untouched0 := untouched.CopyNew()
		require.ErrorIs(t, tc.enc.EncryptGLWE(tc.glweSK, make([]T, N-1), untouched), ErrShapeMismatch)
		require.True(t, untouched.Equal(untouched0))

		_, err := tc.dec.DecryptLWE(tc.lweSK, NewLWECiphertext[T](1))
		require.ErrorIs(t, err, ErrShapeMismatch)
		require.ErrorIs(t, tc.dec.DecryptGLWE(tc.glweSK, NewGLWECiphertext[T](k, N), make([]T, 1)), ErrShapeMismatch)

		_, err = ModulusSwitchLWE(NewLWECiphertext[T](4), 0)
		require.Error(t, err)
		require.ErrorIs(t, ModulusSwitchLWEAssign(NewLWECiphertext[T](4), NewSwitchedLWECiphertext(5, 4)), ErrShapeMismatch)
	})
}

func testModulusSwitch[T ring.Torus](t *testing.T) {

	W := ring.Bits[T]()

	t.Run(fmt.Sprintf("ModulusSwitch/W=%d", W), func(t *testing.T) {

		for _, logModulus := range []int{1, 4, 11, 17} {

			half := int64(1) << (W - logModulus - 1)

			prng, err := sampling.NewKeyedPRNG([]byte("modulus switch"))
			require.NoError(t, err)

			values := make([]T, 4096)
			ring.NewUniformSampler[T](prng, ring.NativeModulus()).Read(values)
			values = append(values, 0, 1, ^T(0), ^T(0)>>1, ^(^T(0) >> 1), T(half), T(half)-1)

			for _, x := range values {

				k := ModulusSwitch(x, logModulus)
				require.GreaterOrEqual(t, k, 0)
				require.Less(t, k, 1<<logModulus)

				// within half a step of the original value, ties rounded up
				diff := Centered(x - ModulusSwitchBack[T](k, logModulus))
				require.GreaterOrEqual(t, diff, -half)
				require.Less(t, diff, half)
			}

			require.Equal(t, 0, ModulusSwitch(^T(0), logModulus))
			require.Equal(t, 1, ModulusSwitch(T(half), logModulus))
			require.Equal(t, 0, ModulusSwitch(T(half)-1, logModulus))
		}

		// 2N = 2048
		require.Equal(t, 1024, ModulusSwitch(T(1)<<(W-1), 11))
		require.Equal(t, 2047, ModulusSwitch(^T(0)<<(W-11), 11))
	})

	t.Run(fmt.Sprintf("ModulusSwitch/LWE/W=%d", W), func(t *testing.T) {
		ct := NewLWECiphertext[T](3)
		copy(ct.Value, []T{T(1) << (W - 1), T(1) << (W - 2), ^T(0), T(3) << (W - 2)})
		msed, err := ModulusSwitchLWE(ct, 4)
		require.NoError(t, err)
		require.Equal(t, []int{8, 4, 0}, msed.Mask)
		require.Equal(t, 12, msed.Body)
		require.Equal(t, 3, msed.LWEDimension())
	})
}
