//go:build ocr

// Package ocr recovers positioned text runs from page images of scanned
// documents, feeding the layout indexer's fallback hook when the engine
// reports no native text.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/ChihshengJ/hover-sub000/model"
)

// MinWordConfidence filters Tesseract words below this confidence (0-100).
const MinWordConfidence = 40.0

// FontName is the placeholder font recorded on recognized runs; scanned
// pages carry no font information.
const FontName = "OCR"

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to configure page segmentation: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string (e.g.
// "eng+fra"). Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// RecognizeRuns performs OCR on an encoded page image (PNG, TIFF, JPEG) and
// returns one text run per recognized word, positioned in page coordinates.
// The image is assumed to be a render of the full page at the given DPI;
// pixel boxes are converted to points with the origin at the bottom left.
func (c *Client) RecognizeRuns(imageData []byte, pageHeight, dpi float64) ([]model.TextRun, error) {
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid dpi %f", dpi)
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	scale := 72.0 / dpi
	runs := make([]model.TextRun, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" || box.Confidence < MinWordConfidence {
			continue
		}
		w := float64(box.Box.Dx()) * scale
		h := float64(box.Box.Dy()) * scale
		runs = append(runs, model.TextRun{
			Text:     box.Word,
			X:        float64(box.Box.Min.X) * scale,
			Y:        pageHeight - float64(box.Box.Max.Y)*scale,
			Width:    w,
			Height:   h,
			FontName: FontName,
			FontSize: h,
		})
	}
	return runs, nil
}
