package backend

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"upscaled/internal/pixels"
	"upscaled/pkg/types"
)

var red = color.RGBA{R: 255, A: 255}

func TestResizeBackendDoublesDimensions(t *testing.T) {
	b, err := New(Config{Name: NameResize}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer b.Close()
	res, err := b.Upscale(context.Background(), types.UpscaleRequest{Image: pngBytes(t, 30, 20, red), Scale: 4})
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if res.ContentType != PNGContentType {
		t.Fatalf("content-type=%q", res.ContentType)
	}
	w, h := decodeSize(t, res.Body)
	if w != 60 || h != 40 || res.Width != 60 || res.Height != 40 {
		t.Fatalf("got %dx%d (reported %dx%d), want 60x40", w, h, res.Width, res.Height)
	}
}

func TestImageBackendInvalidInput(t *testing.T) {
	b := Wrap(NameResize, Interpolator{}, zerolog.Nop())
	_, err := b.Upscale(context.Background(), types.UpscaleRequest{Image: []byte("not an image")})
	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	_, err = b.Upscale(context.Background(), types.UpscaleRequest{})
	if !IsInvalidInput(err) {
		t.Fatalf("expected invalid input for empty upload, got %v", err)
	}
}

func TestImageBackendRejectsTooManyPixels(t *testing.T) {
	b, err := New(Config{Name: NameResize, MaxPixels: 100}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = b.Upscale(context.Background(), types.UpscaleRequest{Image: pngBytes(t, 20, 20, red)})
	if !IsImageTooLarge(err) {
		t.Fatalf("expected image too large, got %v", err)
	}
	if IsInvalidInput(err) {
		t.Fatalf("oversized image reported as invalid input")
	}
	if !errors.Is(err, pixels.ErrTooManyPixels) {
		t.Fatalf("cause lost: %v", err)
	}
	if _, err := b.Upscale(context.Background(), types.UpscaleRequest{Image: pngBytes(t, 10, 10, red)}); err != nil {
		t.Fatalf("image at the cap: %v", err)
	}
}

func TestImageBackendCanceledContext(t *testing.T) {
	b := Wrap(NameResize, Interpolator{}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.Upscale(ctx, types.UpscaleRequest{Image: pngBytes(t, 4, 4, red)})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWrapForwardsClose(t *testing.T) {
	r := &nearestRunner{factor: 4}
	b := Wrap(NameRealESRGAN, NewRealESRGAN(r, 0, zerolog.Nop()), zerolog.Nop())
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !r.closed {
		t.Fatalf("runner was not closed")
	}
	if err := Wrap(NameResize, Interpolator{}, zerolog.Nop()).Close(); err != nil {
		t.Fatalf("Close on interpolator: %v", err)
	}
}

func TestRealESRGANDownscalesOversizedInput(t *testing.T) {
	r := &nearestRunner{factor: 4}
	m := NewRealESRGAN(r, 64, zerolog.Nop())
	out, err := m.Transform(context.Background(), solidImage(128, 80, red), 4)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if r.lastIn.Width != 64 || r.lastIn.Height != 40 {
		t.Fatalf("model saw %dx%d, want 64x40", r.lastIn.Width, r.lastIn.Height)
	}
	if b := out.Bounds(); b.Dx() != 256 || b.Dy() != 160 {
		t.Fatalf("output %v, want 256x160", b)
	}
}

func TestRealESRGANKeepsSmallInput(t *testing.T) {
	r := &nearestRunner{factor: 4}
	m := NewRealESRGAN(r, 64, zerolog.Nop())
	if _, err := m.Transform(context.Background(), solidImage(10, 64, red), 4); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if r.lastIn.Width != 10 || r.lastIn.Height != 64 {
		t.Fatalf("model saw %dx%d, want 10x64", r.lastIn.Width, r.lastIn.Height)
	}
}

func TestRealESRGANChannelOrder(t *testing.T) {
	r := &nearestRunner{factor: 4}
	m := NewRealESRGAN(r, 0, zerolog.Nop())
	out, err := m.Transform(context.Background(), solidImage(2, 2, red), 4)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if r.lastIn.Order != pixels.RGB {
		t.Fatalf("model fed %v, want RGB", r.lastIn.Order)
	}
	// red must sit in the first plane for an RGB model
	if r.lastIn.Pix[0] != 1 || r.lastIn.Pix[2*4] != 0 {
		t.Fatalf("red not in first plane: %v", r.lastIn.Pix)
	}
	got := color.RGBAModel.Convert(out.At(3, 3)).(color.RGBA)
	if got != red {
		t.Fatalf("colour changed through the model path: %v", got)
	}
}

func TestRealESRGANRejectsWrongOutput(t *testing.T) {
	m := NewRealESRGAN(&nearestRunner{factor: 2}, 0, zerolog.Nop())
	if _, err := m.Transform(context.Background(), solidImage(4, 4, red), 4); err == nil {
		t.Fatalf("expected scale mismatch error")
	}
	m = NewRealESRGAN(&nearestRunner{factor: 4, outOrder: pixels.BGR}, 0, zerolog.Nop())
	if _, err := m.Transform(context.Background(), solidImage(4, 4, red), 4); err == nil {
		t.Fatalf("expected channel order error")
	}
}

func TestHybridDispatch(t *testing.T) {
	r := &nearestRunner{factor: 4}
	b := Wrap(NameHybrid, &Hybrid{Model: NewRealESRGAN(r, 0, zerolog.Nop()), Interp: Interpolator{Factor: 2}}, zerolog.Nop())
	img := pngBytes(t, 100, 100, red)

	cases := []struct {
		scale     int
		wantSide  int
		wantCalls int
	}{
		{scale: 2, wantSide: 200, wantCalls: 0},
		{scale: 3, wantSide: 100, wantCalls: 0},
		{scale: 4, wantSide: 400, wantCalls: 1},
		{scale: 0, wantSide: 100, wantCalls: 1},
	}
	for _, c := range cases {
		res, err := b.Upscale(context.Background(), types.UpscaleRequest{Image: img, Scale: c.scale})
		if err != nil {
			t.Fatalf("scale=%d: %v", c.scale, err)
		}
		w, h := decodeSize(t, res.Body)
		if w != c.wantSide || h != c.wantSide {
			t.Fatalf("scale=%d: got %dx%d want %d", c.scale, w, h, c.wantSide)
		}
		if r.Calls() != c.wantCalls {
			t.Fatalf("scale=%d: model calls=%d want %d", c.scale, r.Calls(), c.wantCalls)
		}
	}
}

func TestHybridPassthroughKeepsPixels(t *testing.T) {
	h := &Hybrid{Model: NewRealESRGAN(&nearestRunner{factor: 4}, 0, zerolog.Nop()), Interp: Interpolator{}}
	src := solidImage(5, 5, red)
	out, err := h.Transform(context.Background(), src, 3)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if out != image.Image(src) {
		t.Fatalf("expected the input image back")
	}
}

func TestEDSRFeedsBGRAndScales(t *testing.T) {
	n := &fakeNet{}
	e := &EDSR{net: n, log: zerolog.Nop()}
	out, err := e.Transform(context.Background(), solidImage(3, 2, red), 0)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if n.gotOrder != pixels.BGR {
		t.Fatalf("net fed %v, want BGR", n.gotOrder)
	}
	if b := out.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Fatalf("output %v, want 12x8", b)
	}
	if err := e.Close(); err != nil || !n.closed {
		t.Fatalf("close err=%v closed=%v", err, n.closed)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestMissingWeightsIsNotExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.bin")
	for _, cfg := range []Config{
		{Name: NameEDSR, EDSRWeights: missing},
		{Name: NameRealESRGAN, RealESRGAN: RealESRGANOptions{WeightsPath: missing}},
		{Name: NameHybrid, RealESRGAN: RealESRGANOptions{WeightsPath: missing}},
	} {
		_, err := New(cfg, zerolog.Nop())
		if !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("%s: expected fs.ErrNotExist, got %v", cfg.Name, err)
		}
	}
}

func TestNewUnknownBackend(t *testing.T) {
	if _, err := New(Config{Name: "bicubic-ish"}, zerolog.Nop()); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestNewRemoteRequiresKey(t *testing.T) {
	if _, err := New(Config{Name: NameRemote}, zerolog.Nop()); err == nil {
		t.Fatalf("expected missing api key error")
	}
	b, err := New(Config{Name: " Remote ", Remote: RemoteOptions{APIKey: "k"}}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New remote: %v", err)
	}
	if b.Name() != NameRemote {
		t.Fatalf("name=%q", b.Name())
	}
}

func writeWeights(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte("weights"), 0o644); err != nil {
		t.Fatalf("write weights: %v", err)
	}
	return p
}
