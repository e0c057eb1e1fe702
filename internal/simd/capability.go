package simd

// Capability reports which dot-product implementation dispatch selected,
// for diagnostics and tests.
func Capability() string {
	return capability()
}
