package icon

import (
	"image"
	"image/draw"
	"io"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

// Thumbnail scales img to fit a size×size square, keeping the aspect ratio.
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// EncodeWebP writes img as lossless webp.
func EncodeWebP(w io.Writer, img image.Image) error {
	return webp.Encode(w, img, &webp.Options{Lossless: true, Quality: 100})
}
