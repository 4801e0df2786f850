package httpapi

import "net/http"

// DefaultMaxBodyBytes bounds POST /upscale bodies unless configured.
const DefaultMaxBodyBytes int64 = 32 << 20

// maxBodyBytes controls the maximum allowed request body size for uploads.
var maxBodyBytes = DefaultMaxBodyBytes

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
		return
	}
	maxBodyBytes = n
}

// upscaleTimeout controls the maximum duration an /upscale request may run before timing out.
// Zero means no additional timeout beyond server/connection timeouts.
var upscaleTimeout = int64(0) // seconds

// SetUpscaleTimeoutSeconds sets the upscale timeout in seconds (0 disables).
func SetUpscaleTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	upscaleTimeout = sec
}

// statusMessage is served by GET /.
var statusMessage = ""

// SetStatusMessage overrides the GET / message. Empty restores the default.
func SetStatusMessage(msg string) { statusMessage = msg }

// CORS configuration. CORS is always on; empty lists mean "any".
var (
	corsAllowedOrigins   = []string{"*"}
	corsAllowedHeaders   = []string{"*"}
	corsAllowCredentials = true
)

// corsAllowedMethods is explicit because the cors handler has no method wildcard.
var corsAllowedMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(origins, headers []string, allowCredentials bool) {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	if len(headers) == 0 {
		headers = []string{"*"}
	}
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedHeaders = append([]string(nil), headers...)
	corsAllowCredentials = allowCredentials
}
