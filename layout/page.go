package layout

import (
	"strings"

	"github.com/ChihshengJ/hover-sub000/model"
)

// Margins are the estimated whitespace margins of a page in points.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// PageLayout is the analyzed structure of one page: its lines in reading
// order, detected columns and band segments, and body-font statistics. It is
// built lazily, cached by the indexer, and invalidated only by an explicit
// re-index. A page with no extractable runs yields an empty PageLayout.
type PageLayout struct {
	// Page is the 1-based page number.
	Page int

	// Width and Height are the page dimensions in points.
	Width, Height float64

	// Margins are the estimated page margins.
	Margins Margins

	// Gutters are the accepted column gutters, empty for single-column
	// pages.
	Gutters []Gutter

	// Columns are the column bounds, left to right. Always at least one
	// entry for a page with content.
	Columns []ColumnBounds

	// Segments are the alternating full-width/column bands, top to bottom.
	Segments []Segment

	// Lines are the page's lines in reading order.
	Lines []Line

	// Body holds the page's body-font statistics.
	Body FontStats

	// AmbiguousColumns records that gutter candidates were found but
	// rejected, so the page degraded to a single-column reading order.
	AmbiguousColumns bool
}

// IsEmpty reports whether the page produced no lines.
func (p *PageLayout) IsEmpty() bool {
	return p == nil || len(p.Lines) == 0
}

// Content returns the content-area rectangle (page box minus margins).
func (p *PageLayout) Content() model.Rect {
	if p == nil {
		return model.Rect{}
	}
	return model.Rect{
		X:      p.Margins.Left,
		Y:      p.Margins.Bottom,
		Width:  p.Width - p.Margins.Left - p.Margins.Right,
		Height: p.Height - p.Margins.Top - p.Margins.Bottom,
	}
}

// IsMultiColumn reports whether the page has more than one column.
func (p *PageLayout) IsMultiColumn() bool {
	return p != nil && len(p.Columns) > 1
}

// Text returns the page's full text in reading order, lines joined with
// single spaces.
func (p *PageLayout) Text() string {
	if p.IsEmpty() {
		return ""
	}
	parts := make([]string, 0, len(p.Lines))
	for _, line := range p.Lines {
		parts = append(parts, line.Text)
	}
	return strings.Join(parts, " ")
}

// LinesInRect returns the page's lines whose rectangles intersect the given
// region, in reading order.
func (p *PageLayout) LinesInRect(region model.Rect) []Line {
	if p.IsEmpty() {
		return nil
	}
	var result []Line
	for _, line := range p.Lines {
		if line.Rect.Intersects(region) {
			result = append(result, line)
		}
	}
	return result
}

// analyzePage builds a PageLayout from raw runs.
func analyzePage(page int, width, height float64, runs []model.TextRun, config Config) *PageLayout {
	pl := &PageLayout{
		Page:   page,
		Width:  width,
		Height: height,
	}
	if len(runs) == 0 {
		return pl
	}

	lines := groupLines(runs, page, config.Line)

	content := contentRect(lines)
	pl.Margins = Margins{
		Left:   content.Left(),
		Right:  width - content.Right(),
		Top:    height - content.Top(),
		Bottom: content.Bottom(),
	}

	pl.Gutters, pl.Columns, pl.AmbiguousColumns = detectGutters(lines, width, height, content, config.Gutter)
	lines = splitLinesAtGutters(lines, pl.Gutters, page, config.Line)
	pl.Lines, pl.Segments = orderLines(lines, pl.Columns, content, config.Segment)

	pl.Body = computeFontStats(pl.Lines)
	markCommonFont(pl.Lines, pl.Body)

	return pl
}

// contentRect computes the bounding rectangle of all lines.
func contentRect(lines []Line) model.Rect {
	if len(lines) == 0 {
		return model.Rect{}
	}
	rect := lines[0].Rect
	for _, line := range lines[1:] {
		rect = rect.Union(line.Rect)
	}
	return rect
}
