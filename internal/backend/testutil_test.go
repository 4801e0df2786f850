package backend

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"upscaled/internal/pixels"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, solidImage(w, h, c)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if format != "png" {
		t.Fatalf("result format=%q", format)
	}
	return cfg.Width, cfg.Height
}

// nearestRunner is a fake model: nearest-neighbour upscale by factor.
type nearestRunner struct {
	mu       sync.Mutex
	factor   int
	calls    int
	lastIn   pixels.Planar
	outOrder pixels.ChannelOrder
	closed   bool
}

func (r *nearestRunner) Run(ctx context.Context, in *pixels.Planar) (*pixels.Planar, error) {
	r.mu.Lock()
	r.calls++
	r.lastIn = pixels.Planar{Width: in.Width, Height: in.Height, Order: in.Order, Pix: append([]float32(nil), in.Pix...)}
	r.mu.Unlock()
	out := upsampleNearest(in, r.factor)
	out.Order = r.outOrder
	return out, nil
}

func (r *nearestRunner) Close() error { r.closed = true; return nil }

func (r *nearestRunner) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func upsampleNearest(in *pixels.Planar, f int) *pixels.Planar {
	out := pixels.NewPlanar(in.Width*f, in.Height*f, in.Order)
	is, os := in.Width*in.Height, out.Width*out.Height
	for c := 0; c < 3; c++ {
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Pix[c*os+y*out.Width+x] = in.Pix[c*is+(y/f)*in.Width+x/f]
			}
		}
	}
	return out
}

// fakeNet is an srNet that records the order it was fed.
type fakeNet struct {
	gotOrder pixels.ChannelOrder
	closed   bool
}

func (n *fakeNet) Forward(in *pixels.Planar) (*pixels.Planar, error) {
	n.gotOrder = in.Order
	return upsampleNearest(in, 4), nil
}

func (n *fakeNet) Close() error { n.closed = true; return nil }
