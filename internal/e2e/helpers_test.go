package e2e

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"upscaled/internal/backend"
	"upscaled/internal/httpapi"
	"upscaled/internal/upscale"
)

// newServer wires a real service around b behind the full HTTP stack.
func newServer(t *testing.T, b backend.Backend, cfg upscale.Config) (*httptest.Server, *upscale.Service) {
	t.Helper()
	svc := upscale.New(b, cfg, zerolog.Nop())
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(srv.Close)
	return srv, svc
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

// newUploadWithScale builds a multipart POST /upscale; scale is omitted when empty.
func newUploadWithScale(t *testing.T, url string, data []byte, scale string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", "in.png")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	_, _ = fw.Write(data)
	if scale != "" {
		_ = mw.WriteField("scale", scale)
	}
	_ = mw.Close()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url+"/upscale", &body)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newUpload(t *testing.T, url string, data []byte) *http.Request {
	return newUploadWithScale(t, url, data, "")
}

// postUpscale sends a multipart upload; scale is omitted when empty.
func postUpscale(t *testing.T, url string, data []byte, scale string, header http.Header) (*http.Response, []byte) {
	t.Helper()
	req := newUploadWithScale(t, url, data, scale)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func pngSize(t *testing.T, b []byte) (int, int) {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	return cfg.Width, cfg.Height
}
