//go:build !gocv

package backend

// loadEDSRNet refuses to run without OpenCV. Build with -tags=gocv.
func loadEDSRNet(path string) (srNet, error) {
	return nil, ErrDependencyUnavailable("edsr support not built (missing 'gocv' build tag)")
}
