package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillNRGBA(img *image.NRGBA, c color.NRGBA) {
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestComposite_TransparentForegroundYieldsBackground(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	fillNRGBA(bg, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	fg := image.NewNRGBA(image.Rect(0, 0, 32, 24))
	fillNRGBA(fg, color.NRGBA{R: 40, G: 90, B: 200, A: 0})

	out, err := Composite(bg, fg)
	require.NoError(t, err)
	assert.Equal(t, bg.Pix, out.Pix)
}

func TestComposite_OpaqueForegroundYieldsForeground(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fillNRGBA(bg, color.NRGBA{R: 10, G: 200, B: 30, A: 255})

	fg := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	fillNRGBA(fg, color.NRGBA{R: 120, G: 5, B: 90, A: 255})

	out, err := Composite(bg, fg)
	require.NoError(t, err)
	assert.Equal(t, fg.Pix, out.Pix)
}

func TestComposite_HalfTransparentBlend(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	bg.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 255})

	fg := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	fg.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})

	out, err := Composite(bg, fg)
	require.NoError(t, err)

	got := out.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255), got.A)
	assert.InDelta(t, 128, int(got.R), 1)
	assert.Equal(t, uint8(0), got.G)
	assert.InDelta(t, 127, int(got.B), 1)
}

func TestComposite_BothTransparentStaysTransparent(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	fg := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	out, err := Composite(bg, fg)
	require.NoError(t, err)
	for _, p := range out.Pix {
		require.Equal(t, uint8(0), p)
	}
}

func TestComposite_BoundsMismatchFailsFast(t *testing.T) {
	bg := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	fg := image.NewNRGBA(image.Rect(0, 0, 10, 11))

	_, err := Composite(bg, fg)
	assert.Error(t, err)
}
