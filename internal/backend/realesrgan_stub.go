//go:build !onnx

package backend

// newONNXRunner refuses to run without ONNX Runtime. Build with -tags=onnx.
func newONNXRunner(opts RealESRGANOptions) (Runner, error) {
	return nil, ErrDependencyUnavailable("realesrgan support not built (missing 'onnx' build tag)")
}
