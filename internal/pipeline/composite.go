package pipeline

import (
	"fmt"
	"image"
	"math"
)

// Composite blends foreground over background with the Porter-Duff
// source-over operator. Both inputs must share identical bounds; a
// mismatch is a programming error upstream of this stage, not user
// input, so it fails immediately.
func Composite(background, foreground *image.NRGBA) (*image.NRGBA, error) {
	if background.Bounds() != foreground.Bounds() {
		return nil, fmt.Errorf("composite requires identical bounds, got background=%v foreground=%v",
			background.Bounds(), foreground.Bounds())
	}

	out := image.NewNRGBA(background.Bounds())
	for i := 0; i < len(out.Pix); i += 4 {
		fa := float64(foreground.Pix[i+3]) / 255
		ba := float64(background.Pix[i+3]) / 255
		oa := fa + ba*(1-fa)

		if oa == 0 {
			continue
		}

		for c := 0; c < 3; c++ {
			fc := float64(foreground.Pix[i+c])
			bc := float64(background.Pix[i+c])
			// Stored values are non-premultiplied, so the blended channel
			// is renormalized by the output alpha.
			out.Pix[i+c] = clampByte((fc*fa + bc*ba*(1-fa)) / oa)
		}
		out.Pix[i+3] = clampByte(oa * 255)
	}

	return out, nil
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
