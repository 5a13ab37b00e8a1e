package ocr

import (
	"github.com/ChihshengJ/hover-sub000/model"
)

// RenderFunc renders one page to an encoded image (PNG, TIFF, JPEG) at the
// given DPI. Page numbers are 1-based.
type RenderFunc func(page int, dpi float64) ([]byte, error)

// Source adapts OCR recognition to the layout indexer's fallback hook: it
// renders a page, optionally upscales the raster, and returns positioned
// runs. Recognition failures yield no runs rather than an error; a page the
// OCR cannot read is treated like an empty page.
type Source struct {
	client     *Client
	render     RenderFunc
	pageHeight func(page int) float64
	dpi        float64
	upscale    float64
}

// NewSource creates a fallback source. dpi is the render resolution;
// upscale > 1 resamples the raster before recognition, which helps on
// low-resolution scans. pageHeight reports a page's height in points.
func NewSource(client *Client, render RenderFunc, pageHeight func(page int) float64, dpi, upscale float64) *Source {
	if dpi <= 0 {
		dpi = 300
	}
	return &Source{
		client:     client,
		render:     render,
		pageHeight: pageHeight,
		dpi:        dpi,
		upscale:    upscale,
	}
}

// Runs recognizes the runs of one page. Returns nil when the client is
// unavailable or recognition fails.
func (s *Source) Runs(page int) []model.TextRun {
	if s == nil || s.client == nil || s.render == nil {
		return nil
	}
	data, err := s.render(page, s.dpi)
	if err != nil || len(data) == 0 {
		return nil
	}

	dpi := s.dpi
	if s.upscale > 1 {
		if scaled, err := UpscalePNG(data, s.upscale); err == nil {
			data = scaled
			dpi *= s.upscale
		}
	}

	runs, err := s.client.RecognizeRuns(data, s.pageHeight(page), dpi)
	if err != nil {
		return nil
	}
	return runs
}
