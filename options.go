package hover

import (
	"github.com/ChihshengJ/hover-sub000/citations"
	"github.com/ChihshengJ/hover-sub000/crossref"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/lexicon"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/ocr"
	"github.com/ChihshengJ/hover-sub000/outline"
	"github.com/ChihshengJ/hover-sub000/references"
)

// Options aggregates the configuration of every analysis stage. The zero
// value is not usable; start from DefaultOptions.
type Options struct {
	// Layout configures line grouping, column detection and indexing.
	Layout layout.Config

	// Locator and Extractor configure bibliography location and entry
	// segmentation.
	Locator   references.LocatorConfig
	Extractor references.ExtractorConfig

	// Citations configures in-text citation detection.
	Citations citations.Config

	// CrossRef configures cross-reference detection.
	CrossRef crossref.Config

	// Outline configures outline synthesis.
	Outline outline.Config

	// Lexicon overrides the embedded pattern tables; nil uses the default.
	Lexicon *lexicon.Lexicon

	// FallbackRuns supplies text runs for pages where the engine reports
	// none, typically from OCR. Optional.
	FallbackRuns func(page int) []model.TextRun
}

// DefaultOptions returns the default configuration for all stages.
func DefaultOptions() Options {
	return Options{
		Layout:    layout.DefaultConfig(),
		Locator:   references.DefaultLocatorConfig(),
		Extractor: references.DefaultExtractorConfig(),
		Citations: citations.DefaultConfig(),
		CrossRef:  crossref.DefaultConfig(),
		Outline:   outline.DefaultConfig(),
	}
}

// WithOCR wires an OCR source into the layout fallback hook, so scanned
// pages without native text still get indexed.
func (o Options) WithOCR(source *ocr.Source) Options {
	o.FallbackRuns = source.Runs
	return o
}

// lex returns the configured lexicon, defaulting to the embedded tables.
func (o Options) lex() *lexicon.Lexicon {
	if o.Lexicon != nil {
		return o.Lexicon
	}
	return lexicon.Default()
}
