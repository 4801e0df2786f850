package types

// DefaultStatusMessage is returned by GET / unless overridden in config.
// Existing web clients match on this literal.
const DefaultStatusMessage = "FastAPI Backend is Running!"

// StatusMessage is the static payload returned by GET /.
type StatusMessage struct {
	// example: FastAPI Backend is Running!
	Message string `json:"message" example:"FastAPI Backend is Running!"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Human-readable error detail. Internal failures never leak their cause here.
	// example: Invalid image file
	Detail string `json:"detail" example:"Invalid image file"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Active backend id.
	// example: realesrgan
	Backend string `json:"backend" example:"realesrgan"`
	// Service lifecycle state (ready, draining, closed).
	// example: ready
	State string `json:"state" example:"ready"`
	// Whether the service accepts new upscale requests.
	// example: true
	Ready bool `json:"ready" example:"true"`
	// Requests currently running on the backend.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Requests holding a queue slot (includes in-flight).
	// example: 3
	Queued int `json:"queued" example:"3"`
	// Maximum concurrent backend invocations.
	// example: 4
	MaxInflight int `json:"max_inflight" example:"4"`
	// Maximum queued requests allowed before backpressure triggers.
	// example: 32
	MaxQueueDepth int `json:"max_queue_depth" example:"32"`
	// Total upscale requests completed successfully.
	// example: 120
	CompletedTotal uint64 `json:"completed_total" example:"120"`
	// Total upscale requests that failed (any reason).
	// example: 3
	FailedTotal uint64 `json:"failed_total" example:"3"`
	// Total requests rejected by admission control.
	// example: 0
	RejectedTotal uint64 `json:"rejected_total" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
