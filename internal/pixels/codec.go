// Package pixels holds the image plumbing shared by the backends: decoding
// uploads, PNG encoding, channel-ordered planar buffers and resampling.
package pixels

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned when there are no bytes to decode.
var ErrEmpty = errors.New("empty image")

// ErrTooManyPixels is returned when the declared dimensions exceed the limit.
var ErrTooManyPixels = errors.New("image has too many pixels")

// Decode decodes any registered format (png, jpeg, gif, bmp, tiff, webp).
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode: %w", err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, "", fmt.Errorf("decode: zero-sized %s image", format)
	}
	return img, format, nil
}

// DecodeBounded checks the header before decoding, so an upload declaring
// more than maxPixels pixels is rejected without allocating its buffer.
// maxPixels <= 0 disables the check.
func DecodeBounded(data []byte, maxPixels int64) (image.Image, string, error) {
	if maxPixels > 0 {
		cfg, format, err := DecodeConfig(data)
		if err != nil {
			return nil, "", err
		}
		if n := int64(cfg.Width) * int64(cfg.Height); n > maxPixels {
			return nil, "", fmt.Errorf("%s %dx%d (%d > %d): %w", format, cfg.Width, cfg.Height, n, maxPixels, ErrTooManyPixels)
		}
	}
	return Decode(data)
}

// DecodeConfig reads only the header, which is enough to validate an upload
// that will be forwarded untouched.
func DecodeConfig(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", ErrEmpty
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("decode config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("decode config: zero-sized %s image", format)
	}
	return cfg, format, nil
}

var encoder = png.Encoder{CompressionLevel: png.DefaultCompression}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
