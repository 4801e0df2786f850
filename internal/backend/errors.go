package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// invalidInputError signals an upload that cannot be decoded as an image.
type invalidInputError struct{ err error }

func (e invalidInputError) Error() string {
	if e.err == nil {
		return "invalid input"
	}
	return "invalid input: " + e.err.Error()
}

func (e invalidInputError) Unwrap() error { return e.err }

// StatusCode maps to 400 for the HTTP layer.
func (e invalidInputError) StatusCode() int { return http.StatusBadRequest }

// ErrInvalidInput wraps a decode failure.
func ErrInvalidInput(cause error) error { return invalidInputError{err: cause} }

// IsInvalidInput reports whether err indicates an undecodable upload.
func IsInvalidInput(err error) bool {
	var e invalidInputError
	return errors.As(err, &e)
}

// imageTooLargeError signals an upload whose dimensions exceed the pixel cap.
type imageTooLargeError struct{ err error }

func (e imageTooLargeError) Error() string { return "image too large: " + e.err.Error() }

func (e imageTooLargeError) Unwrap() error { return e.err }

// StatusCode maps to 413 for the HTTP layer.
func (e imageTooLargeError) StatusCode() int { return http.StatusRequestEntityTooLarge }

// ErrImageTooLarge wraps a pixel cap violation.
func ErrImageTooLarge(cause error) error { return imageTooLargeError{err: cause} }

// IsImageTooLarge reports whether err indicates an oversized image.
func IsImageTooLarge(err error) bool {
	var e imageTooLargeError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals a native runtime missing from this build
// or from the host (OpenCV, ONNX Runtime).
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// StatusCode maps to 503 for the HTTP layer.
func (e dependencyUnavailableError) StatusCode() int { return http.StatusServiceUnavailable }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// UpstreamError carries a non-2xx answer from the remote API so it can be
// relayed to the client unchanged.
type UpstreamError struct {
	Status      int
	Body        []byte
	ContentType string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Status, truncate(e.Body, 256))
}

// StatusCode returns the upstream status.
func (e *UpstreamError) StatusCode() int { return e.Status }

// AsUpstream extracts an UpstreamError from err's chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
