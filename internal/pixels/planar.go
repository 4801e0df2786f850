package pixels

import (
	"fmt"
	"image"
	"image/color"
)

// ChannelOrder names the order of the three color planes in a Planar buffer.
type ChannelOrder int

const (
	RGB ChannelOrder = iota
	BGR
)

func (o ChannelOrder) String() string {
	switch o {
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	default:
		return fmt.Sprintf("ChannelOrder(%d)", int(o))
	}
}

// Planar is a 3-channel CHW float32 buffer with values in [0,1].
// Alpha is discarded on the way in and is fully opaque on the way out.
type Planar struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []float32
}

// NewPlanar allocates a zeroed buffer.
func NewPlanar(width, height int, order ChannelOrder) *Planar {
	return &Planar{Width: width, Height: height, Order: order, Pix: make([]float32, 3*width*height)}
}

// FromImage converts img into a planar buffer laid out in the given order.
func FromImage(img image.Image, order ChannelOrder) *Planar {
	b := img.Bounds()
	p := NewPlanar(b.Dx(), b.Dy(), order)
	stride := p.Width * p.Height
	first, last := 0, 2
	if order == BGR {
		first, last = 2, 0
	}
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			idx := y*p.Width + x
			p.Pix[first*stride+idx] = float32(r) / 65535
			p.Pix[stride+idx] = float32(g) / 65535
			p.Pix[last*stride+idx] = float32(bl) / 65535
		}
	}
	return p
}

// Validate checks that Pix matches the declared dimensions.
func (p *Planar) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("planar: invalid size %dx%d", p.Width, p.Height)
	}
	if want := 3 * p.Width * p.Height; len(p.Pix) != want {
		return fmt.Errorf("planar: have %d values, want %d", len(p.Pix), want)
	}
	return nil
}

// Swap exchanges the first and last planes in place and flips Order.
func (p *Planar) Swap() {
	stride := p.Width * p.Height
	first := p.Pix[:stride]
	last := p.Pix[2*stride : 3*stride]
	for i := range first {
		first[i], last[i] = last[i], first[i]
	}
	if p.Order == RGB {
		p.Order = BGR
	} else {
		p.Order = RGB
	}
}

// To converts the buffer to order in place. No-op when already there.
func (p *Planar) To(order ChannelOrder) {
	if p.Order != order {
		p.Swap()
	}
}

// Image renders the buffer as an opaque RGBA image, clamping out-of-range values.
func (p *Planar) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	stride := p.Width * p.Height
	ri, bi := 0, 2
	if p.Order == BGR {
		ri, bi = 2, 0
	}
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			idx := y*p.Width + x
			img.SetRGBA(x, y, color.RGBA{
				R: to8(p.Pix[ri*stride+idx]),
				G: to8(p.Pix[stride+idx]),
				B: to8(p.Pix[bi*stride+idx]),
				A: 0xff,
			})
		}
	}
	return img
}

// Interleaved8 returns HWC bytes in the buffer's channel order, the layout
// OpenCV expects for an 8UC3 Mat.
func (p *Planar) Interleaved8() []byte {
	stride := p.Width * p.Height
	out := make([]byte, 3*stride)
	for i := 0; i < stride; i++ {
		out[3*i] = to8(p.Pix[i])
		out[3*i+1] = to8(p.Pix[stride+i])
		out[3*i+2] = to8(p.Pix[2*stride+i])
	}
	return out
}

func to8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	default:
		return uint8(v*255 + 0.5)
	}
}
