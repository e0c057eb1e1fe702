//go:build !amd64 && !arm64

package simd

func dot(a, b []float32) float32 {
	return dotScalar(a, b)
}

func capability() string {
	return "scalar (generic)"
}
