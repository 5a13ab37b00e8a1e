package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// Upscale resamples an image by the given factor using Catmull-Rom
// interpolation. Factors at or below 1 return the image unchanged.
// Recognition accuracy drops sharply on rasters below roughly 300 DPI;
// upscaling a low-resolution render recovers much of it.
func Upscale(img image.Image, factor float64) image.Image {
	if factor <= 1 {
		return img
	}
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0,
		int(float64(bounds.Dx())*factor),
		int(float64(bounds.Dy())*factor)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// UpscalePNG decodes an encoded image, upscales it and re-encodes it as PNG.
func UpscalePNG(data []byte, factor float64) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page image: %w", err)
	}
	scaled := Upscale(img, factor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("failed to encode upscaled image: %w", err)
	}
	return buf.Bytes(), nil
}
