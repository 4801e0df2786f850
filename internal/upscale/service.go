package upscale

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"upscaled/internal/backend"
	"upscaled/pkg/types"
)

// State is the service lifecycle state.
type State string

const (
	StateReady    State = "ready"
	StateDraining State = "draining"
	StateClosed   State = "closed"
)

// Service fronts a single backend with admission control.
type Service struct {
	mu      sync.RWMutex
	state   State
	backend backend.Backend
	cfg     Config
	log     zerolog.Logger

	// genCh holds one token per running request; queueCh one per admitted
	// request, running or waiting.
	genCh   chan struct{}
	queueCh chan struct{}

	startTime time.Time
	completed atomic.Uint64
	failed    atomic.Uint64
	rejected  atomic.Uint64
}

// New wraps an already constructed backend. The backend is owned by the
// service from here on and is closed by Close.
func New(b backend.Backend, cfg Config, log zerolog.Logger) *Service {
	cfg = cfg.withDefaults()
	return &Service{
		state:     StateReady,
		backend:   b,
		cfg:       cfg,
		log:       log.With().Str("component", "upscale").Logger(),
		genCh:     make(chan struct{}, cfg.MaxInflight),
		queueCh:   make(chan struct{}, cfg.MaxInflight+cfg.MaxQueueDepth),
		startTime: time.Now(),
	}
}

// BackendName returns the active backend id.
func (s *Service) BackendName() string { return s.backend.Name() }

// Ready reports whether new requests are accepted.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateReady
}

// Upscale admits the request and runs it on the backend.
func (s *Service) Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error) {
	release, err := s.admit(ctx)
	if err != nil {
		if IsTooBusy(err) {
			s.rejected.Add(1)
			admissionRejections.WithLabelValues(TooBusyReason(err)).Inc()
			s.log.Warn().Err(err).Msg("request rejected")
		}
		return types.UpscaleResult{}, err
	}
	defer release()

	inputBytes.Observe(float64(len(req.Image)))
	start := time.Now()
	res, err := s.backend.Upscale(ctx, req)
	backendDuration.WithLabelValues(s.backend.Name(), outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		s.failed.Add(1)
		return types.UpscaleResult{}, err
	}
	s.completed.Add(1)
	s.log.Debug().Int("in_bytes", len(req.Image)).Int("out_bytes", len(res.Body)).
		Int("width", res.Width).Int("height", res.Height).Dur("dur", time.Since(start)).Msg("upscaled")
	return res, nil
}

// outcome is the metrics label for a backend result.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case backend.IsInvalidInput(err):
		return "invalid_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		if _, ok := backend.AsUpstream(err); ok {
			return "upstream_error"
		}
		return "error"
	}
}
