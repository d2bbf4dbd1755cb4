package pipeline

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_StretchesBackgroundToForeground(t *testing.T) {
	fg := image.NewNRGBA(image.Rect(0, 0, 1024, 768))
	bg := image.NewNRGBA(image.Rect(0, 0, 800, 600))

	fgOut, bgOut := Reconcile(fg, bg)

	assert.Equal(t, fgOut.Bounds(), bgOut.Bounds())
	assert.Equal(t, 1024, bgOut.Bounds().Dx())
	assert.Equal(t, 768, bgOut.Bounds().Dy())
}

func TestReconcile_ForegroundNeverAltered(t *testing.T) {
	fg := image.NewNRGBA(image.Rect(0, 0, 300, 200))
	bg := image.NewNRGBA(image.Rect(0, 0, 4000, 50))

	fgOut, bgOut := Reconcile(fg, bg)

	assert.Equal(t, 300, fgOut.Bounds().Dx())
	assert.Equal(t, 200, fgOut.Bounds().Dy())
	assert.Equal(t, fgOut.Bounds(), bgOut.Bounds())
}

func TestReconcile_MatchingSizesLeftAlone(t *testing.T) {
	fg := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	bg := image.NewGray(image.Rect(0, 0, 64, 64))

	fgOut, bgOut := Reconcile(fg, bg)

	assert.Equal(t, fgOut.Bounds(), bgOut.Bounds())
}

func TestReconcile_AlphaLessInputBecomesOpaque(t *testing.T) {
	fg := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	bg := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			bg.SetGray(x, y, color.Gray{Y: 180})
		}
	}

	_, bgOut := Reconcile(fg, bg)

	require.Equal(t, 10, bgOut.Bounds().Dx())
	for i := 3; i < len(bgOut.Pix); i += 4 {
		require.Equal(t, uint8(255), bgOut.Pix[i], "alpha at offset %d", i)
	}
}
