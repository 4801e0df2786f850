//go:build onnx

package backend

import (
	"context"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"upscaled/internal/pixels"
)

var (
	ortOnce sync.Once
	ortErr  error
)

// initORT initializes the process-wide ONNX Runtime environment once.
func initORT(lib string) error {
	ortOnce.Do(func() {
		if lib != "" {
			ort.SetSharedLibraryPath(lib)
		}
		ortErr = ort.InitializeEnvironment()
	})
	return ortErr
}

// onnxRunner wraps a dynamic session so inputs of any size can be fed.
type onnxRunner struct {
	session *ort.DynamicAdvancedSession
}

func newONNXRunner(opts RealESRGANOptions) (Runner, error) {
	if err := initORT(opts.SharedLibrary); err != nil {
		return nil, ErrDependencyUnavailable("onnxruntime not available: " + err.Error())
	}
	s, err := ort.NewDynamicAdvancedSession(opts.WeightsPath, []string{opts.InputName}, []string{opts.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("realesrgan session: %w", err)
	}
	return &onnxRunner{session: s}, nil
}

func (r *onnxRunner) Run(ctx context.Context, in *pixels.Planar) (*pixels.Planar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in.To(pixels.RGB)
	shape := ort.NewShape(1, 3, int64(in.Height), int64(in.Width))
	input, err := ort.NewTensor(shape, in.Pix)
	if err != nil {
		return nil, fmt.Errorf("input tensor: %w", err)
	}
	defer input.Destroy()

	outputs := []ort.Value{nil}
	if err := r.session.Run([]ort.Value{input}, outputs); err != nil {
		return nil, err
	}
	defer outputs[0].Destroy()
	t, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("unexpected output type %T", outputs[0])
	}
	dims := t.GetShape()
	if len(dims) != 4 || dims[1] != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	out := &pixels.Planar{
		Width:  int(dims[3]),
		Height: int(dims[2]),
		Order:  pixels.RGB,
		Pix:    append([]float32(nil), t.GetData()...),
	}
	return out, nil
}

func (r *onnxRunner) Close() error { return r.session.Destroy() }
