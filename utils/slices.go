package utils

// Alias1D returns true if x and y share the same base array.
// Taken from http://golang.org/src/pkg/math/big/nat.go#L340 .
func Alias1D[V any](x, y []V) bool {
	return cap(x) > 0 && cap(y) > 0 && &x[0:cap(x)][cap(x)-1] == &y[0:cap(y)][cap(y)-1]
}

// BitReverseInPlaceSliceFromTable applies the bit-reverse permutation given by perm
// (see [BitReversePermutation]) on the input slice.
func BitReverseInPlaceSliceFromTable[V any](slice []V, perm []int) {
	for i, j := range perm {
		if i < j {
			slice[i], slice[j] = slice[j], slice[i]
		}
	}
}
