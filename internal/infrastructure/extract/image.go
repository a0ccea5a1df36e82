package extract

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// ImageOptions controls how scans are prepared before OCR.
type ImageOptions struct {
	// UpscaleMinWidth enlarges narrower images to this width. Zero disables it.
	UpscaleMinWidth int
	Grayscale       bool
}

// PrepareImage decodes a JPEG or PNG, optionally converts it to grayscale and
// upscales small scans, and re-encodes the result as PNG.
func PrepareImage(data []byte, opts ImageOptions) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	width, height := bounds.Dx(), bounds.Dy()
	if opts.UpscaleMinWidth > 0 && width < opts.UpscaleMinWidth {
		height = height * opts.UpscaleMinWidth / width
		width = opts.UpscaleMinWidth
	}
	if width == bounds.Dx() && height == bounds.Dy() && !opts.Grayscale {
		return data, nil
	}

	rect := image.Rect(0, 0, width, height)
	var dst draw.Image
	if opts.Grayscale {
		dst = image.NewGray(rect)
	} else {
		dst = image.NewRGBA(rect)
	}
	draw.Draw(dst, rect, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, rect, src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
