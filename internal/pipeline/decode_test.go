package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func buildTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecode_EmptyBuffer(t *testing.T) {
	_, err := Decode(nil)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = Decode([]byte{})
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecode_CorruptBytes(t *testing.T) {
	_, err := Decode([]byte("this is not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestDecode_OnePixelPNG(t *testing.T) {
	img, err := Decode(buildTestPNG(t, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, img.Bounds().Dx())
	assert.Equal(t, 1, img.Bounds().Dy())
}

func TestDecode_PalettedPNG(t *testing.T) {
	paletted := image.NewPaletted(image.Rect(0, 0, 8, 8), color.Palette{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, paletted))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDecode_BMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, src))

	img, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())
}
