// Package upscale owns the process-lifetime backend and coordinates access to
// it. It is structured into small files by concern:
//
//   - service.go: Service type, constructor, Upscale entry point, Ready.
//   - config.go: Config and package defaults.
//   - admission.go: queue and in-flight slots in front of the backend.
//   - errors.go: error types and helpers (IsTooBusy).
//   - status.go: Status reporting for GET /status.
//   - close.go: draining shutdown.
//   - metrics.go: backend-level Prometheus collectors.
//
// The HTTP layer should treat Service as an opaque handle and use its public
// methods only.
package upscale
