// Package imageproc normalizes uploaded photos before label analysis:
// bound the dimensions, lift contrast and brightness slightly, and re-encode
// as JPEG so every stored photo shares one predictable format.
package imageproc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
)

// Normalization parameters. Matched to the frontend's 4:3 gallery tiles.
const (
	MaxWidth  = 1024
	MaxHeight = 768

	// Percentage adjustments, equivalent to 1.2x contrast and 1.1x
	// brightness enhancement factors.
	contrastPct   = 20
	brightnessPct = 10

	jpegQuality = 85
)

// Normalize decodes raw image bytes, fits them inside MaxWidth×MaxHeight
// without upscaling, applies the fixed contrast/brightness lift, and
// re-encodes as JPEG. Decoding flattens every source color model to RGB;
// alpha is dropped at encode time.
func Normalize(data []byte) ([]byte, error) {
	start := time.Now()

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	// Fit only shrinks; an image already within bounds passes through at
	// its original size.
	if srcW > MaxWidth || srcH > MaxHeight {
		img = imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	}

	img = imaging.AdjustContrast(img, contrastPct)
	img = imaging.AdjustBrightness(img, brightnessPct)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode JPEG: %w", err)
	}

	out := img.Bounds()
	log.Debug().
		Int("srcWidth", srcW).
		Int("srcHeight", srcH).
		Int("width", out.Dx()).
		Int("height", out.Dy()).
		Int("inBytes", len(data)).
		Int("outBytes", buf.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("Image normalized")

	return buf.Bytes(), nil
}
