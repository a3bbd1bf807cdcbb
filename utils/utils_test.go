package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPowerOfTwo(t *testing.T) {
	require.False(t, IsPowerOfTwo(0))
	require.True(t, IsPowerOfTwo(1))
	require.True(t, IsPowerOfTwo(uint64(1<<63)))
	require.False(t, IsPowerOfTwo(-4))
	require.False(t, IsPowerOfTwo(1023))
	require.True(t, IsPowerOfTwo(uint32(1024)))
}

func TestLog2(t *testing.T) {
	require.Equal(t, -1, Log2(uint(0)))
	require.Equal(t, 0, Log2(uint(1)))
	require.Equal(t, 10, Log2(uint64(1024)))
	require.Equal(t, 10, Log2(uint64(2047)))
}

func TestMinMax(t *testing.T) {
	require.Equal(t, 3, Min(3, 7))
	require.Equal(t, 7.5, Max(3.0, 7.5))
}

func TestBitReverse(t *testing.T) {

	for _, N := range []int{1, 2, 8, 64, 1024} {

		logN := uint64(Log2(uint(N)))

		want := make([]int, N)
		for i := range want {
			want[i] = int(BitReverse64(uint64(i), logN))
		}

		have := make([]int, N)
		for i := range have {
			have[i] = i
		}
		BitReverseInPlaceSliceFromTable(have, BitReversePermutation(N))

		require.Equal(t, want, have)
	}

	require.Equal(t, []int{0, 4, 2, 6, 1, 5, 3, 7}, BitReversePermutation(8))
}

func TestAlias1D(t *testing.T) {
	s := make([]uint64, 8)
	require.True(t, Alias1D(s, s[2:]))
	require.False(t, Alias1D(s, make([]uint64, 8)))
}
