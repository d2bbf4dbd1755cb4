package pipeline

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Downscale shrinks img so neither dimension exceeds maxDim, preserving
// aspect ratio. Images already within the bound are returned unchanged;
// this never upscales.
func Downscale(img image.Image, maxDim int) image.Image {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	longest := max(w, h)
	if longest <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longest)
	newW := maxDim
	newH := int(math.Round(float64(h) * scale))
	if w < h {
		newW = int(math.Round(float64(w) * scale))
		newH = maxDim
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}

// Stretch resizes img to exactly width x height with no regard for the
// source aspect ratio.
func Stretch(img image.Image, width, height int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
