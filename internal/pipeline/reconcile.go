package pipeline

import "image"

// Reconcile brings the two images to identical geometry and color mode:
// the background is stretched to the foreground's exact dimensions (the
// foreground is never altered here) and both come back as NRGBA, with
// formerly alpha-less pixels fully opaque.
func Reconcile(foreground, background image.Image) (*image.NRGBA, *image.NRGBA) {
	fg := toNRGBA(foreground)

	w := fg.Bounds().Dx()
	h := fg.Bounds().Dy()

	var bg *image.NRGBA
	if background.Bounds().Dx() == w && background.Bounds().Dy() == h {
		bg = toNRGBA(background)
	} else {
		bg = Stretch(background, w, h)
	}

	return fg, bg
}
