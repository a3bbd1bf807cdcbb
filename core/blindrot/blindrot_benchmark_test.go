package blindrot

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/utils/sampling"
)

func BenchmarkBlindRotate(b *testing.B) {

	// n=630, k=1, N=1024, B=7, l=3
	params, err := tfhe.NewParametersFromLiteral(tfhe.ParametersLiteral{
		LWEDimension:   630,
		GLWEDimension:  1,
		PolynomialSize: 1024,
		BaseLog:        7,
		LevelCount:     3,
		LWEStdDev:      0.000030517578125,
		GLWEStdDev:     0.0000000298023223876953125,
	})
	require.NoError(b, err)

	tc, err := newTestContext[uint64](params)
	require.NoError(b, err)

	k, N := params.GLWEDimension(), params.PolynomialSize()

	// random switched mask and body, only the timing matters
	msed := tfhe.NewSwitchedLWECiphertext(params.LWEDimension(), params.BlindRotationLogModulus())
	mask := uint64(2*N - 1)
	for i := range msed.Mask {
		msed.Mask[i] = int(sampling.RandUint64() & mask)
	}
	msed.Body = int(sampling.RandUint64() & mask)

	b.Run(testString[uint64](params, "BlindRotateAssign/Latency"), func(b *testing.B) {

		acc := NewIdentityAccumulator[uint64](k, N)

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := tc.eval.BlindRotateAssign(acc, msed); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run(testString[uint64](params, "BlindRotateBatch/Throughput"), func(b *testing.B) {

		count := runtime.GOMAXPROCS(0)

		cts := make([]*tfhe.LWECiphertext[uint64], count)
		accs := make([]*tfhe.GLWECiphertext[uint64], count)
		for i := range cts {
			cts[i] = tfhe.NewLWECiphertext[uint64](params.LWEDimension())
			for j := range cts[i].Value {
				cts[i].Value[j] = sampling.RandUint64()
			}
			accs[i] = NewIdentityAccumulator[uint64](k, N)
		}

		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if err := tc.eval.BlindRotateBatch(context.Background(), accs, cts, count); err != nil {
				b.Fatal(err)
			}
		}

		b.ReportMetric(float64(b.Elapsed().Nanoseconds())/float64(b.N*count), "ns/rotation")
	})
}
