package upscale

import (
	"context"
	"time"
)

// Close stops admitting work, waits for admitted requests until ctx is done,
// then releases the backend. Safe to call more than once.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateDraining
	s.mu.Unlock()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
wait:
	for len(s.queueCh) > 0 {
		select {
		case <-ctx.Done():
			s.log.Warn().Int("queued", len(s.queueCh)).Int("inflight", len(s.genCh)).Msg("drain timeout")
			break wait
		case <-ticker.C:
		}
	}

	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
	err := s.backend.Close()
	s.log.Info().Str("backend", s.backend.Name()).Msg("backend closed")
	return err
}
