// Package hover analyzes the structure of paginated documents: it rebuilds
// reading order from positioned text runs, locates and segments the
// bibliography, detects in-text citations and cross-references, and
// synthesizes a hierarchical outline. The engine that parses the document
// file itself is a collaborator behind the engine.Document interface; every
// analysis stage degrades gracefully on malformed input rather than failing.
//
// Basic usage:
//
//	doc, err := engine.LoadJSONFile("paper.json")
//	if err != nil {
//	    // handle error
//	}
//	idx, err := hover.New(doc, hover.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	if err := idx.BuildIndex(ctx, nil); err != nil {
//	    // handle error
//	}
//	for _, c := range idx.CitationsForPage(3) {
//	    fmt.Println(c.Text, c.Confidence)
//	}
package hover

import (
	"context"
	"sync"

	"github.com/ChihshengJ/hover-sub000/citations"
	"github.com/ChihshengJ/hover-sub000/crossref"
	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/outline"
	"github.com/ChihshengJ/hover-sub000/references"
)

// DocumentIndex is the entry point to document structure analysis. It wraps
// the layout index and constructs the downstream analyzers lazily, so a
// caller who only needs reading order never pays for citation detection.
// Safe for concurrent use after construction.
type DocumentIndex struct {
	doc     engine.Document
	options Options
	ix      *layout.Indexer

	refOnce  sync.Once
	section  *references.Section
	anchors  []references.Anchor
	refFmt   references.Format
	detector *citations.Detector
	resolver *crossref.Resolver

	outlineOnce sync.Once
	nodes       []*outline.Node
}

// New creates a document index. Returns an error only for a nil document.
func New(doc engine.Document, options Options) (*DocumentIndex, error) {
	cfg := options.Layout
	if options.FallbackRuns != nil {
		cfg.FallbackRuns = options.FallbackRuns
	}
	ix, err := layout.NewIndexerWithConfig(doc, cfg)
	if err != nil {
		return nil, err
	}
	return &DocumentIndex{doc: doc, options: options, ix: ix}, nil
}

// BuildIndex indexes every page. The progress callback, when non-nil, is
// invoked as batches complete. Building is idempotent; see
// layout.Indexer.BuildIndex.
func (di *DocumentIndex) BuildIndex(ctx context.Context, progress func(done, total int)) error {
	return di.ix.BuildIndex(ctx, progress)
}

// PageCount returns the number of pages in the document.
func (di *DocumentIndex) PageCount() int {
	return di.ix.PageCount()
}

// Layout exposes the underlying layout indexer.
func (di *DocumentIndex) Layout() *layout.Indexer {
	return di.ix
}

// OrderedLines returns a page's lines in reading order.
func (di *DocumentIndex) OrderedLines(page int) []layout.Line {
	return di.ix.OrderedLines(page)
}

// Search finds case-insensitive matches of the query in the page range,
// in reading order.
func (di *DocumentIndex) Search(query string, fromPage, toPage int) []layout.Match {
	return di.ix.Search(query, fromPage, toPage)
}

// Warnings returns the non-fatal problems collected so far.
func (di *DocumentIndex) Warnings() []layout.Warning {
	return di.ix.Warnings()
}

// ensureReferences runs bibliography location, anchor extraction and
// detector construction once.
func (di *DocumentIndex) ensureReferences() {
	di.refOnce.Do(func() {
		lex := di.options.lex()

		locator := references.NewLocatorWithConfig(lex, di.options.Locator)
		di.section = locator.Locate(di.ix)
		if di.section != nil {
			extractor := references.NewExtractorWithConfig(lex, di.options.Extractor)
			di.anchors, di.refFmt = extractor.Extract(di.section, di.ix.DocumentFontStats())
		}

		di.detector = citations.NewDetectorWithConfig(di.doc, di.ix, di.section, di.anchors, di.options.Citations)
		di.resolver = crossref.NewResolverWithConfig(di.doc, di.ix, di.section, lex, di.options.CrossRef)
	})
}

// Bibliography returns the located bibliography section, or nil when the
// document has none.
func (di *DocumentIndex) Bibliography() *references.Section {
	di.ensureReferences()
	return di.section
}

// ReferenceAnchors returns the segmented bibliography entries in reading
// order, together with the detected entry format. A positive page restricts
// the result to entries starting on that page; zero or negative returns
// them all. Empty when no bibliography was located.
func (di *DocumentIndex) ReferenceAnchors(page int) ([]references.Anchor, references.Format) {
	di.ensureReferences()
	if page <= 0 {
		return di.anchors, di.refFmt
	}
	var onPage []references.Anchor
	for _, a := range di.anchors {
		if a.Page == page {
			onPage = append(onPage, a)
		}
	}
	return onPage, di.refFmt
}

// CitationsForPage returns the in-text citations detected on a page, in
// reading order.
func (di *DocumentIndex) CitationsForPage(page int) []citations.Citation {
	di.ensureReferences()
	return di.detector.Detect(page)
}

// MatchCitationToReference resolves an author surname and year key (e.g.
// "Smith", "2020a") against the bibliography. Returns the best entry and
// the match confidence, or (nil, 0) when nothing matches.
func (di *DocumentIndex) MatchCitationToReference(author, year string) (*references.Anchor, float64) {
	di.ensureReferences()
	return citations.ResolveAuthorYear(di.anchors, author, "", year)
}

// CrossRefDefinitions returns every cross-reference target (captions,
// headings, numbered displays) in reading order.
func (di *DocumentIndex) CrossRefDefinitions() []crossref.Definition {
	di.ensureReferences()
	return di.resolver.Definitions()
}

// CrossReferencesForPage returns the cross-reference mentions on a page,
// in reading order.
func (di *DocumentIndex) CrossReferencesForPage(page int) []crossref.Reference {
	di.ensureReferences()
	return di.resolver.ReferencesForPage(page)
}

// Outline returns the document outline: embedded bookmarks when available,
// otherwise an outline synthesized from heading detection. Computed once.
func (di *DocumentIndex) Outline() []*outline.Node {
	di.outlineOnce.Do(func() {
		s := outline.NewSynthesizerWithConfig(di.doc, di.ix, di.options.lex(), di.options.Outline)
		di.nodes = s.Outline()
	})
	return di.nodes
}
