package upscale

import (
	"context"
	"errors"
	"sync/atomic"

	"upscaled/internal/backend"
	"upscaled/pkg/types"
)

// fakeBackend blocks on gate (when set) and returns err or an echo of the input.
type fakeBackend struct {
	gate    chan struct{}
	started chan struct{}
	err     error
	calls   atomic.Int32
	closed  atomic.Int32
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error) {
	f.calls.Add(1)
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return types.UpscaleResult{}, ctx.Err()
		}
	}
	if f.err != nil {
		return types.UpscaleResult{}, f.err
	}
	return types.UpscaleResult{Body: req.Image, ContentType: backend.PNGContentType, Width: 1, Height: 1}, nil
}

func (f *fakeBackend) Close() error {
	f.closed.Add(1)
	return nil
}

var errBoom = errors.New("boom")
