//go:build !ocr

// Package ocr recovers positioned text runs from page images of scanned
// documents, feeding the layout indexer's fallback hook when the engine
// reports no native text.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All operations return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"errors"

	"github.com/ChihshengJ/hover-sub000/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR support
// was not compiled in. Rebuild with -tags ocr to enable OCR support.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// FontName is the placeholder font recorded on recognized runs.
const FontName = "OCR"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns an error indicating OCR support is not enabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// RecognizeRuns returns an error indicating OCR support is not enabled.
func (c *Client) RecognizeRuns(imageData []byte, pageHeight, dpi float64) ([]model.TextRun, error) {
	return nil, ErrOCRNotEnabled
}
