package httpapi

import (
	"encoding/json"
	"net/http"

	"upscaled/pkg/types"
)

// Client-facing error details. Internal causes are logged, never returned.
const (
	detailInvalidImage = "Invalid image file"
	detailInvalidScale = "Invalid scale value"
	detailTooLarge     = "Image too large"
	detailBusy         = "Server busy"
	detailUnavailable  = "Backend unavailable"
	detailShutdown     = "Server shutting down"
	detailInternal     = "Internal server error"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Detail: detail})
}
