package ggsw

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/torus/core/tfhe"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
	"github.com/tuneinsight/torus/utils/scratch"
)

func BenchmarkExternalProduct(b *testing.B) {

	for _, N := range []int{256, 512, 1024, 2048} {

		k, baseLog, level := 1, 7, 3

		b.Run(fmt.Sprintf("AddExternalProductAssign/k=%d/N=%d/B=%d/l=%d", k, N, baseLog, level), func(b *testing.B) {

			fft, err := ring.NewFFT(N)
			require.NoError(b, err)

			// the operands are random: only the timing matters
			fggsw := NewFourierCiphertext(k, N, baseLog, level)
			for i := range fggsw.Value {
				fggsw.Value[i] = complex(sampling.RandFloat64(-1, 1), sampling.RandFloat64(-1, 1))
			}

			in := tfhe.NewGLWECiphertext[uint64](k, N)
			for i := range in.Value {
				in.Value[i] = sampling.RandUint64()
			}

			acc := tfhe.NewGLWECiphertext[uint64](k, N)

			buf := scratch.NewBuffersFor(AddExternalProductAssignScratch[uint64](k, N, fft))

			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := AddExternalProductAssign(acc, fggsw, in, fft, buf.Stack()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
