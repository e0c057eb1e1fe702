// Package simd provides a dot-product kernel over contiguous float32
// vectors with runtime dispatch between a scalar implementation and
// wider, unrolled accumulator chains on amd64 and arm64.
package simd

// Dot computes the dot product of a and b. It returns 0 if either slice is
// nil, empty, or their lengths differ (NaN-safe zero rather than a panic, so
// callers can feed it raw scan output without pre-validating).
func Dot(a, b []float32) float32 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	return dot(a, b)
}

// dotScalar is the portable fallback: straight accumulation, no
// unrolling. Used directly on platforms without a wider kernel and as the
// tail-handling step inside the unrolled kernels.
func dotScalar(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
