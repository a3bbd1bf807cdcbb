package sampling_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/torus/utils/sampling"
)

func Test_PRNG(t *testing.T) {

	key := []byte{0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07, 0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
		0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92, 0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98}

	t.Run("PRNG", func(t *testing.T) {

		Ha, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)
		Hb, err := sampling.NewKeyedPRNG(key)
		require.NoError(t, err)

		sum0 := make([]byte, 512)
		sum1 := make([]byte, 512)

		for i := 0; i < 128; i++ {
			_, err = Hb.Read(sum1)
			require.NoError(t, err)
		}

		Hb.Reset()

		_, err = Ha.Read(sum0)
		require.NoError(t, err)
		_, err = Hb.Read(sum1)
		require.NoError(t, err)

		require.Equal(t, sum0, sum1)
		require.Equal(t, key, Ha.Key())
	})

	t.Run("ThreadSafePRNG", func(t *testing.T) {
		prng, err := sampling.NewPRNG()
		require.NoError(t, err)

		sum0 := make([]byte, 64)
		sum1 := make([]byte, 64)

		n, err := prng.Read(sum0)
		require.NoError(t, err)
		require.Equal(t, len(sum0), n)
		_, err = prng.Read(sum1)
		require.NoError(t, err)

		require.NotEqual(t, sum0, sum1)
		require.NotEqual(t, make([]byte, 64), sum0)
	})

	t.Run("DeriveSeed", func(t *testing.T) {
		a := sampling.DeriveSeed(key, "mask")
		b := sampling.DeriveSeed(key, "noise")
		require.Len(t, a, sampling.SeedSize)
		require.NotEqual(t, a, b)
		require.Equal(t, a, sampling.DeriveSeed(key, "mask"))
	})

	t.Run("Seeder", func(t *testing.T) {
		s0 := sampling.NewDeterministicSeeder(key)
		s1 := sampling.NewDeterministicSeeder(key)

		a0, err := s0.Seed()
		require.NoError(t, err)
		a1, err := s0.Seed()
		require.NoError(t, err)
		b0, err := s1.Seed()
		require.NoError(t, err)

		require.Equal(t, a0, b0)
		require.NotEqual(t, a0, a1)

		seed0, err := sampling.NewSeeder().Seed()
		require.NoError(t, err)
		require.Len(t, seed0, sampling.SeedSize)
		seed1, err := sampling.NewSeeder().Seed()
		require.NoError(t, err)
		require.NotEqual(t, seed0, seed1)
	})
}
