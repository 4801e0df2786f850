package backend

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"upscaled/internal/common/fsutil"
	"upscaled/internal/pixels"
)

// DefaultEDSRWeights is the pre-trained EDSR x4 TensorFlow graph.
const DefaultEDSRWeights = "EDSR_x4.pb"

// edsrScale is fixed by the weights.
const edsrScale = 4

// edsrMean is the per-channel DIV2K mean in BGR order, in 0..255 units.
var edsrMean = [3]float64{103.1545, 111.4885, 114.1605}

// srNet is a loaded super-resolution network working on BGR buffers.
type srNet interface {
	Forward(in *pixels.Planar) (*pixels.Planar, error)
	Close() error
}

// EDSR applies fixed 4x super-resolution. The underlying OpenCV net is not
// safe for concurrent use, so forwards are serialised.
type EDSR struct {
	mu  sync.Mutex
	net srNet
	log zerolog.Logger
}

// NewEDSR resolves the weight file and loads the network. A missing file
// yields an error wrapping fs.ErrNotExist.
func NewEDSR(weightsPath string, log zerolog.Logger) (*EDSR, error) {
	if weightsPath == "" {
		weightsPath = DefaultEDSRWeights
	}
	p, err := fsutil.ResolveFile(weightsPath)
	if err != nil {
		return nil, fmt.Errorf("edsr weights: %w", err)
	}
	net, err := loadEDSRNet(p)
	if err != nil {
		return nil, err
	}
	log.Info().Str("weights", p).Msg("edsr model loaded")
	return &EDSR{net: net, log: log}, nil
}

func (e *EDSR) Transform(ctx context.Context, img image.Image, _ int) (image.Image, error) {
	in := pixels.FromImage(img, pixels.BGR)
	e.mu.Lock()
	if err := ctx.Err(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	out, err := e.net.Forward(in)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}
	if err := checkScaled(in, out, edsrScale); err != nil {
		return nil, err
	}
	out.To(pixels.BGR)
	return out.Image(), nil
}

func (e *EDSR) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.net == nil {
		return nil
	}
	err := e.net.Close()
	e.net = nil
	return err
}

// checkScaled verifies a model output is exactly scale times its input.
func checkScaled(in, out *pixels.Planar, scale int) error {
	if out == nil {
		return fmt.Errorf("model returned no output")
	}
	if err := out.Validate(); err != nil {
		return err
	}
	if out.Width != in.Width*scale || out.Height != in.Height*scale {
		return fmt.Errorf("model output %dx%d, want %dx%d", out.Width, out.Height, in.Width*scale, in.Height*scale)
	}
	return nil
}
