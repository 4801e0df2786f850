package backend

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"upscaled/internal/common/fsutil"
	"upscaled/internal/pixels"
)

// Real-ESRGAN defaults.
const (
	DefaultRealESRGANWeights = "RealESRGAN_x4plus.onnx"
	DefaultMaxDimension      = 1024
	realESRGANScale          = 4
)

// Runner executes a super-resolution network. Input and output are RGB
// planar buffers with values in [0,1].
type Runner interface {
	Run(ctx context.Context, in *pixels.Planar) (*pixels.Planar, error)
	Close() error
}

// RealESRGANOptions configures the Real-ESRGAN backend.
type RealESRGANOptions struct {
	WeightsPath string
	// MaxDimension bounds the larger input side before inference.
	MaxDimension int
	// Tensor names of the exported graph.
	InputName  string
	OutputName string
	// SharedLibrary is the onnxruntime library path; empty uses the loader default.
	SharedLibrary string
}

func (o *RealESRGANOptions) applyDefaults() {
	if o.WeightsPath == "" {
		o.WeightsPath = DefaultRealESRGANWeights
	}
	if o.MaxDimension <= 0 {
		o.MaxDimension = DefaultMaxDimension
	}
	if o.InputName == "" {
		o.InputName = "input"
	}
	if o.OutputName == "" {
		o.OutputName = "output"
	}
}

// RealESRGAN runs a compact 4x network. Pixels are kept in BGR order around
// the model call, matching buffers produced by OpenCV-based tooling, and are
// swapped to RGB only for the network itself.
type RealESRGAN struct {
	runner Runner
	maxDim int
	log    zerolog.Logger
}

// LoadRealESRGAN resolves the weight file and opens an ONNX Runtime session.
func LoadRealESRGAN(opts RealESRGANOptions, log zerolog.Logger) (*RealESRGAN, error) {
	opts.applyDefaults()
	p, err := fsutil.ResolveFile(opts.WeightsPath)
	if err != nil {
		return nil, fmt.Errorf("realesrgan weights: %w", err)
	}
	opts.WeightsPath = p
	r, err := newONNXRunner(opts)
	if err != nil {
		return nil, err
	}
	log.Info().Str("weights", p).Int("max_dimension", opts.MaxDimension).Msg("realesrgan model loaded")
	return NewRealESRGAN(r, opts.MaxDimension, log), nil
}

// NewRealESRGAN builds the backend around an already loaded runner.
func NewRealESRGAN(r Runner, maxDim int, log zerolog.Logger) *RealESRGAN {
	if maxDim <= 0 {
		maxDim = DefaultMaxDimension
	}
	return &RealESRGAN{runner: r, maxDim: maxDim, log: log}
}

func (r *RealESRGAN) Transform(ctx context.Context, img image.Image, _ int) (image.Image, error) {
	src := pixels.FitWithin(img, r.maxDim)
	if src != img {
		ib, sb := img.Bounds(), src.Bounds()
		r.log.Debug().Int("from_w", ib.Dx()).Int("from_h", ib.Dy()).Int("to_w", sb.Dx()).Int("to_h", sb.Dy()).Msg("downscaled before inference")
	}

	buf := pixels.FromImage(src, pixels.BGR)
	buf.To(pixels.RGB)
	out, err := r.runner.Run(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("inference: %w", err)
	}
	if err := checkScaled(buf, out, realESRGANScale); err != nil {
		return nil, err
	}
	if out.Order != pixels.RGB {
		return nil, fmt.Errorf("runner returned %v buffer, want RGB", out.Order)
	}
	out.To(pixels.BGR)
	return out.Image(), nil
}

func (r *RealESRGAN) Close() error {
	if r.runner == nil {
		return nil
	}
	return r.runner.Close()
}
