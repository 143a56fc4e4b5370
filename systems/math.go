package systems

import "math"

// Fast math helpers for hot-path float32 work, avoiding float64 round trips.

// fastSqrt approximates sqrt(x) using fast inverse sqrt with one
// Newton-Raphson refinement.
func fastSqrt(x float32) float32 {
	if x <= 0 {
		return 0
	}
	i := math.Float32bits(x)
	i = 0x5f375a86 - (i >> 1)
	y := math.Float32frombits(i)
	y = y * (1.5 - 0.5*x*y*y)
	return x * y
}

func clampf(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
