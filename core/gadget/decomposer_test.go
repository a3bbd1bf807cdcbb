package gadget

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/torus/ring"
	"github.com/tuneinsight/torus/utils/sampling"
)

func testString[T ring.Torus](opname string, d Decomposer[T]) string {
	return fmt.Sprintf("%s/W=%d/BaseLog=%d/Level=%d", opname, ring.Bits[T](), d.BaseLog(), d.Level())
}

func TestDecomposer(t *testing.T) {

	testNewDecomposer(t)

	for _, bl := range [][2]int{{1, 1}, {7, 3}, {8, 4}, {10, 2}, {16, 2}, {1, 32}, {32, 1}} {
		testDecomposer[uint32](t, bl[0], bl[1])
	}

	for _, bl := range [][2]int{{1, 1}, {7, 3}, {10, 2}, {4, 16}, {16, 4}, {23, 1}, {64, 1}, {1, 64}} {
		testDecomposer[uint64](t, bl[0], bl[1])
	}
}

func testNewDecomposer(t *testing.T) {
	t.Run("NewDecomposer/Invalid", func(t *testing.T) {
		for _, bl := range [][2]int{{0, 1}, {1, 0}, {33, 1}, {11, 3}} {
			_, err := NewDecomposer[uint32](bl[0], bl[1])
			require.Error(t, err)
		}
		_, err := NewDecomposer[uint64](13, 5)
		require.Error(t, err)
	})

	t.Run("NewDecomposer/Gadget", func(t *testing.T) {
		d, err := NewDecomposer[uint64](7, 3)
		require.NoError(t, err)
		require.Equal(t, uint64(1)<<57, d.Gadget(1))
		require.Equal(t, uint64(1)<<43, d.Gadget(3))
	})
}

func testDecomposer[T ring.Torus](t *testing.T, baseLog, level int) {

	d, err := NewDecomposer[T](baseLog, level)
	require.NoError(t, err)

	prng, err := sampling.NewKeyedPRNG([]byte{'g', 'a', 'd', 'g', 'e', 't'})
	require.NoError(t, err)

	values := make([]T, 1024)
	ring.NewUniformSampler[T](prng, ring.NativeModulus()).Read(values)
	values = append(values, 0, 1, ^T(0), ^T(0)>>1, ^(^T(0) >> 1))

	W := ring.Bits[T]()
	nonRep := W - baseLog*level

	digits := make([]T, level)

	t.Run(testString("ClosestRepresentable", d), func(t *testing.T) {
		for _, x := range values {
			c := d.ClosestRepresentable(x)
			if nonRep > 0 {
				require.Zero(t, c&(T(1)<<nonRep-1))
				diff := ring.Signed(x - c)
				require.LessOrEqual(t, diff, int64(1)<<(nonRep-1)-1)
				require.GreaterOrEqual(t, diff, -int64(1)<<(nonRep-1))
			} else {
				require.Equal(t, x, c)
			}
			// idempotent
			require.Equal(t, c, d.ClosestRepresentable(c))
		}
	})

	t.Run(testString("Decompose", d), func(t *testing.T) {
		half := int64(1) << (baseLog - 1)
		for _, x := range values {
			d.Decompose(x, digits)
			for _, di := range digits {
				v := ring.Signed(di)
				if baseLog < W {
					require.GreaterOrEqual(t, v, -half)
					require.Less(t, v, half)
				}
			}
			require.Equal(t, d.ClosestRepresentable(x), d.Recompose(digits))
		}
	})

	t.Run(testString("NextLevel", d), func(t *testing.T) {

		state := make([]T, len(values))
		d.InitState(values, state)

		levels := make([][]T, level)
		for i := level - 1; i >= 0; i-- {
			levels[i] = make([]T, len(values))
			d.NextLevel(state, levels[i])
		}

		for j, x := range values {
			d.Decompose(x, digits)
			for i := range digits {
				require.Equal(t, digits[i], levels[i][j])
			}
		}
	})
}

func TestDecomposerRounding(t *testing.T) {

	d, err := NewDecomposer[uint32](4, 2)
	require.NoError(t, err)

	// nonRep = 24, ties round up
	require.Equal(t, uint32(1<<24), d.ClosestRepresentable(1<<23))
	require.Equal(t, uint32(0), d.ClosestRepresentable(1<<23-1))
	require.Equal(t, uint32(0), d.ClosestRepresentable(^uint32(0)))

	// 0x78 << 24 = 7*2^28 + 8*2^24: the least significant digit 8 becomes -8 with a carry
	digits := make([]uint32, 2)
	d.Decompose(0x78<<24, digits)
	require.Equal(t, int64(-8), ring.Signed(digits[0]))
	require.Equal(t, int64(-8), ring.Signed(digits[1]))
	require.Equal(t, uint32(0x78<<24), d.Recompose(digits))
}
