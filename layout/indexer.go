package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/model"
)

// Config aggregates the layout analysis configuration.
type Config struct {
	Line    LineConfig
	Gutter  GutterConfig
	Segment SegmentConfig

	// BatchSize is the number of pages indexed concurrently per batch.
	// Default: 5.
	BatchSize int

	// FallbackRuns, when non-nil, is consulted for pages where the engine
	// yields no text runs (e.g. an OCR-backed source for scanned pages).
	// It may return nil to signal that no fallback is available either.
	FallbackRuns func(page int) []model.TextRun
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		Line:      DefaultLineConfig(),
		Gutter:    DefaultGutterConfig(),
		Segment:   DefaultSegmentConfig(),
		BatchSize: 5,
	}
}

// WarningCode classifies non-fatal conditions encountered during indexing.
type WarningCode int

const (
	// WarnNoText: the engine produced no text runs for a page.
	WarnNoText WarningCode = iota

	// WarnAmbiguousColumns: gutter candidates were found but rejected;
	// the page degraded to a single-column reading order.
	WarnAmbiguousColumns
)

// Warning is a non-fatal condition recorded during indexing. Nothing in the
// analysis pipeline logs; callers inspect warnings after the build.
type Warning struct {
	Page    int
	Code    WarningCode
	Message string
}

// ErrNilDocument is returned when an Indexer is created without a document.
var ErrNilDocument = errors.New("layout: nil document")

// build states for the re-entrancy guard.
const (
	buildIdle int32 = iota
	buildRunning
	buildDone
)

// Indexer lazily analyzes document pages and caches one PageLayout per page.
// Pages are indexed in parallel batches; each page writes only its own slot,
// so no lock is held during batch work. All methods are safe for concurrent
// use.
type Indexer struct {
	doc    engine.Document
	config Config

	slots []atomic.Pointer[PageLayout]

	state atomic.Int32

	warnMu   sync.Mutex
	warnings []Warning
}

// NewIndexer creates an indexer over a document with default configuration.
func NewIndexer(doc engine.Document) (*Indexer, error) {
	return NewIndexerWithConfig(doc, DefaultConfig())
}

// NewIndexerWithConfig creates an indexer with custom configuration.
func NewIndexerWithConfig(doc engine.Document, config Config) (*Indexer, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if config.BatchSize < 1 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Indexer{
		doc:    doc,
		config: config,
		slots:  make([]atomic.Pointer[PageLayout], doc.PageCount()),
	}, nil
}

// PageCount returns the number of pages in the underlying document.
func (ix *Indexer) PageCount() int {
	return len(ix.slots)
}

// BuildIndex indexes every page of the document in batches. The progress
// callback, when non-nil, is invoked after each batch with the number of
// pages indexed so far and the total. Building is idempotent: a build that
// already completed is a no-op, and a build already in progress returns
// immediately without waiting. Returns an error only on context
// cancellation.
func (ix *Indexer) BuildIndex(ctx context.Context, progress func(done, total int)) error {
	if !ix.state.CompareAndSwap(buildIdle, buildRunning) {
		return nil
	}

	total := ix.PageCount()
	for start := 0; start < total; start += ix.config.BatchSize {
		if err := ctx.Err(); err != nil {
			ix.state.Store(buildIdle)
			return fmt.Errorf("index build canceled: %w", err)
		}

		end := start + ix.config.BatchSize
		if end > total {
			end = total
		}

		g, _ := errgroup.WithContext(ctx)
		for page := start + 1; page <= end; page++ {
			page := page
			g.Go(func() error {
				ix.EnsurePageIndexed(page)
				return nil
			})
		}
		// Page analysis never returns an error; the group is used only to
		// join the batch.
		_ = g.Wait()

		if progress != nil {
			progress(end, total)
		}
	}

	ix.state.Store(buildDone)
	return nil
}

// EnsurePageIndexed returns the layout of a page, indexing it on demand.
// Already-indexed pages return the cached layout. Returns nil for an
// out-of-range page.
func (ix *Indexer) EnsurePageIndexed(page int) *PageLayout {
	if page < 1 || page > len(ix.slots) {
		return nil
	}
	slot := &ix.slots[page-1]
	if pl := slot.Load(); pl != nil {
		return pl
	}

	pl := ix.indexPage(page)

	// Another goroutine may have raced us; both computed identical results,
	// keep whichever landed first.
	if slot.CompareAndSwap(nil, pl) {
		return pl
	}
	return slot.Load()
}

// EnsurePagesIndexed indexes an inclusive page range, clamped to the
// document, and returns the layouts in order. Supports random access such
// as jumping to a bookmark before a full build has run.
func (ix *Indexer) EnsurePagesIndexed(from, to int) []*PageLayout {
	if from < 1 {
		from = 1
	}
	if to > len(ix.slots) {
		to = len(ix.slots)
	}
	if to < from {
		return nil
	}
	layouts := make([]*PageLayout, 0, to-from+1)
	for page := from; page <= to; page++ {
		layouts = append(layouts, ix.EnsurePageIndexed(page))
	}
	return layouts
}

// Page returns the cached layout of a page, or nil when the page has not
// been indexed yet (or is out of range).
func (ix *Indexer) Page(page int) *PageLayout {
	if page < 1 || page > len(ix.slots) {
		return nil
	}
	return ix.slots[page-1].Load()
}

// Reindex drops the cached layout of a page and rebuilds it. This is the
// only way a cached PageLayout is invalidated.
func (ix *Indexer) Reindex(page int) *PageLayout {
	if page < 1 || page > len(ix.slots) {
		return nil
	}
	ix.slots[page-1].Store(nil)
	return ix.EnsurePageIndexed(page)
}

// Warnings returns the non-fatal conditions recorded so far.
func (ix *Indexer) Warnings() []Warning {
	ix.warnMu.Lock()
	defer ix.warnMu.Unlock()
	out := make([]Warning, len(ix.warnings))
	copy(out, ix.warnings)
	return out
}

// DocumentFontStats aggregates body-font statistics across all indexed
// pages, weighting each page's vote by its line count.
func (ix *Indexer) DocumentFontStats() FontStats {
	var lines []Line
	for page := 1; page <= len(ix.slots); page++ {
		if pl := ix.Page(page); pl != nil {
			lines = append(lines, pl.Lines...)
		}
	}
	return computeFontStats(lines)
}

// OrderedLines returns the lines of a page in reading order, indexing the
// page on demand. Returns nil for an out-of-range page.
func (ix *Indexer) OrderedLines(page int) []Line {
	pl := ix.EnsurePageIndexed(page)
	if pl == nil {
		return nil
	}
	return pl.Lines
}

func (ix *Indexer) indexPage(page int) *PageLayout {
	width, height := ix.doc.PageSize(page)
	runs := ix.doc.TextRuns(page)

	if len(runs) == 0 && ix.config.FallbackRuns != nil {
		runs = ix.config.FallbackRuns(page)
	}
	if len(runs) == 0 {
		ix.warn(Warning{
			Page:    page,
			Code:    WarnNoText,
			Message: "no extractable text; page degraded to empty layout",
		})
		return &PageLayout{Page: page, Width: width, Height: height}
	}

	pl := analyzePage(page, width, height, runs, ix.config)

	if pl.AmbiguousColumns {
		ix.warn(Warning{
			Page:    page,
			Code:    WarnAmbiguousColumns,
			Message: "column detection inconclusive; using single-column reading order",
		})
	}

	return pl
}

func (ix *Indexer) warn(w Warning) {
	ix.warnMu.Lock()
	ix.warnings = append(ix.warnings, w)
	ix.warnMu.Unlock()
}
