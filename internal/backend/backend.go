package backend

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/rs/zerolog"

	"upscaled/internal/pixels"
	"upscaled/pkg/types"
)

// PNGContentType is the media type of every locally produced result.
const PNGContentType = "image/png"

// DefaultMaxPixels caps the decoded size of an upload (width*height).
const DefaultMaxPixels int64 = 1 << 24

// Backend turns one uploaded image into a response body.
type Backend interface {
	Name() string
	Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error)
	// Close releases the model or connection pool. Called once at shutdown.
	Close() error
}

// Transformer is an in-memory image backend. scale is the requested factor;
// fixed-factor transformers ignore it.
type Transformer interface {
	Transform(ctx context.Context, img image.Image, scale int) (image.Image, error)
}

// imageBackend adapts a Transformer to Backend: decode, transform, encode.
type imageBackend struct {
	name      string
	t         Transformer
	maxPixels int64
	log       zerolog.Logger
}

// Wrap builds a Backend around t with DefaultMaxPixels. If t implements
// io.Closer, Close is forwarded.
func Wrap(name string, t Transformer, log zerolog.Logger) Backend {
	return WrapWithLimit(name, t, DefaultMaxPixels, log)
}

// WrapWithLimit is Wrap with an explicit pixel cap; maxPixels <= 0 uses the default.
func WrapWithLimit(name string, t Transformer, maxPixels int64, log zerolog.Logger) Backend {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	return &imageBackend{name: name, t: t, maxPixels: maxPixels, log: log.With().Str("backend", name).Logger()}
}

func (b *imageBackend) Name() string { return b.name }

func (b *imageBackend) Upscale(ctx context.Context, req types.UpscaleRequest) (types.UpscaleResult, error) {
	img, format, err := pixels.DecodeBounded(req.Image, b.maxPixels)
	if errors.Is(err, pixels.ErrTooManyPixels) {
		return types.UpscaleResult{}, ErrImageTooLarge(err)
	}
	if err != nil {
		return types.UpscaleResult{}, ErrInvalidInput(err)
	}
	img = pixels.Opaque(img)
	in := img.Bounds()
	b.log.Debug().Str("format", format).Int("width", in.Dx()).Int("height", in.Dy()).Int("scale", req.Scale).Msg("decoded upload")

	if err := ctx.Err(); err != nil {
		return types.UpscaleResult{}, err
	}
	out, err := b.t.Transform(ctx, img, req.Scale)
	if err != nil {
		return types.UpscaleResult{}, fmt.Errorf("%s: %w", b.name, err)
	}
	body, err := pixels.EncodePNG(out)
	if err != nil {
		return types.UpscaleResult{}, err
	}
	ob := out.Bounds()
	return types.UpscaleResult{Body: body, ContentType: PNGContentType, Width: ob.Dx(), Height: ob.Dy()}, nil
}

func (b *imageBackend) Close() error {
	if c, ok := b.t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
