package pixels

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// ResizeCubic scales img by an integer factor with a Catmull-Rom kernel.
func ResizeCubic(img image.Image, factor int) (image.Image, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("resize: invalid factor %d", factor)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.CatmullRom.Scale(dst, dst.Rect, img, b, draw.Src, nil)
	return dst, nil
}

// FitWithin downscales img so that neither side exceeds maxDim, keeping the
// aspect ratio. Images already within bounds are returned as-is.
func FitWithin(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	if maxDim <= 0 || (b.Dx() <= maxDim && b.Dy() <= maxDim) {
		return img
	}
	return imaging.Fit(img, maxDim, maxDim, imaging.Box)
}

// Opaque drops the alpha channel, keeping the stored color values, the same
// way a color-only decode would.
func Opaque(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}
