//go:build gocv

package backend

import (
	"fmt"
	"image"
	"runtime"

	"gocv.io/x/gocv"

	"upscaled/internal/pixels"
)

// gocvNet runs the EDSR graph through OpenCV's DNN module.
type gocvNet struct {
	net gocv.Net
}

func loadEDSRNet(path string) (srNet, error) {
	net := gocv.ReadNetFromTensorflow(path)
	if net.Empty() {
		_ = net.Close()
		return nil, fmt.Errorf("edsr: cannot read network from %s", path)
	}
	return &gocvNet{net: net}, nil
}

func (g *gocvNet) Forward(in *pixels.Planar) (*pixels.Planar, error) {
	in.To(pixels.BGR)
	buf := in.Interleaved8()
	mat, err := gocv.NewMatFromBytes(in.Height, in.Width, gocv.MatTypeCV8UC3, buf)
	if err != nil {
		return nil, fmt.Errorf("mat from bytes: %w", err)
	}
	defer mat.Close()

	mean := gocv.NewScalar(edsrMean[0], edsrMean[1], edsrMean[2], 0)
	blob := gocv.BlobFromImage(mat, 1.0, image.Pt(0, 0), mean, false, false)
	defer blob.Close()

	g.net.SetInput(blob, "")
	res := g.net.Forward("")
	defer res.Close()
	runtime.KeepAlive(buf)

	dims := res.Size()
	if len(dims) != 4 || dims[1] != 3 {
		return nil, fmt.Errorf("edsr: unexpected output shape %v", dims)
	}
	data, err := res.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("edsr output: %w", err)
	}
	out := pixels.NewPlanar(dims[3], dims[2], pixels.BGR)
	if len(data) < len(out.Pix) {
		return nil, fmt.Errorf("edsr: output has %d values, want %d", len(data), len(out.Pix))
	}
	stride := out.Width * out.Height
	for c := 0; c < 3; c++ {
		m := float32(edsrMean[c])
		for i := 0; i < stride; i++ {
			out.Pix[c*stride+i] = (data[c*stride+i] + m) / 255
		}
	}
	return out, nil
}

func (g *gocvNet) Close() error { return g.net.Close() }
