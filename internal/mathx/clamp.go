// Package mathx contains small generic math helpers.
package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ScaleU8 returns v*num/den with 64-bit intermediates, clamped to 255.
// den == 0 returns 0.
func ScaleU8(v uint8, num, den uint64) uint8 {
	if den == 0 {
		return 0
	}
	return uint8(Clamp(uint64(v)*num/den, 0, 255))
}
