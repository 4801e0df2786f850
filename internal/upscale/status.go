package upscale

import (
	"time"

	"upscaled/pkg/types"
)

// Status builds the response for GET /status.
func (s *Service) Status() types.StatusResponse {
	s.mu.RLock()
	state := s.state
	s.mu.RUnlock()
	now := time.Now()
	return types.StatusResponse{
		Backend:        s.backend.Name(),
		State:          string(state),
		Ready:          state == StateReady,
		Inflight:       len(s.genCh),
		Queued:         len(s.queueCh),
		MaxInflight:    cap(s.genCh),
		MaxQueueDepth:  cap(s.queueCh) - cap(s.genCh),
		CompletedTotal: s.completed.Load(),
		FailedTotal:    s.failed.Load(),
		RejectedTotal:  s.rejected.Load(),
		UptimeSeconds:  int64(now.Sub(s.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
}
