package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// EncodePNG serializes img losslessly with the alpha channel intact.
// PNG is the only output format: the composite depends on transparency
// surviving the round trip to the background-removal service and into
// the downloaded file.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
