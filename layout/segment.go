package layout

import (
	"sort"

	"github.com/ChihshengJ/hover-sub000/model"
)

// SegmentKind distinguishes full-width bands from column bands.
type SegmentKind int

const (
	// SegmentFullWidth is a band whose lines span the content area
	// (titles, abstracts, figures spanning both columns).
	SegmentFullWidth SegmentKind = iota

	// SegmentColumns is a band whose lines flow in columns.
	SegmentColumns
)

// String returns a string representation of the segment kind.
func (k SegmentKind) String() string {
	if k == SegmentFullWidth {
		return "full-width"
	}
	return "columns"
}

// Segment is a horizontal band of the page used for reading-order
// reconstruction. Start and End index into PageLayout.Lines (reading order,
// half-open range).
type Segment struct {
	Kind       SegmentKind
	Start, End int
	Top        float64
	Bottom     float64
}

// SegmentConfig holds configuration for band segmentation and reading-order
// assembly.
type SegmentConfig struct {
	// SpanningThreshold is the minimum fraction of content width a line
	// must cover to be treated as full-width. Default: 0.68.
	SpanningThreshold float64

	// StartTolerance is the X tolerance in points for the at-column-start
	// flag. Default: 5.
	StartTolerance float64
}

// DefaultSegmentConfig returns the default segmentation configuration.
func DefaultSegmentConfig() SegmentConfig {
	return SegmentConfig{
		SpanningThreshold: 0.68,
		StartTolerance:    5.0,
	}
}

// orderLines segments top-to-bottom lines into alternating full-width and
// column bands, assigns lines to columns, and returns the lines in reading
// order together with the band list. Lines must already be sorted top to
// bottom; with a single column the whole page is one full-width band.
func orderLines(lines []Line, columns []ColumnBounds, content model.Rect, config SegmentConfig) ([]Line, []Segment) {
	if len(lines) == 0 {
		return nil, nil
	}

	if len(columns) <= 1 {
		ordered := make([]Line, len(lines))
		copy(ordered, lines)
		markColumnStarts(ordered, columns, content, config)
		return ordered, []Segment{{
			Kind:   SegmentFullWidth,
			Start:  0,
			End:    len(ordered),
			Top:    ordered[0].Rect.Top(),
			Bottom: ordered[len(ordered)-1].Rect.Bottom(),
		}}
	}

	spanWidth := content.Width * config.SpanningThreshold

	// Group consecutive lines of the same kind into bands.
	type band struct {
		spanning bool
		lines    []Line
	}
	var bands []band
	for _, line := range lines {
		spanning := line.Width() >= spanWidth
		if len(bands) == 0 || bands[len(bands)-1].spanning != spanning {
			bands = append(bands, band{spanning: spanning})
		}
		bands[len(bands)-1].lines = append(bands[len(bands)-1].lines, line)
	}

	var ordered []Line
	var segments []Segment

	for _, b := range bands {
		start := len(ordered)
		top := b.lines[0].Rect.Top()
		bottom := b.lines[len(b.lines)-1].Rect.Bottom()

		if b.spanning {
			ordered = append(ordered, b.lines...)
			segments = append(segments, Segment{
				Kind: SegmentFullWidth, Start: start, End: len(ordered),
				Top: top, Bottom: bottom,
			})
			continue
		}

		// Column band: bucket lines by nearest column, then emit columns
		// left to right, each top to bottom.
		buckets := make([][]Line, len(columns))
		for _, line := range b.lines {
			idx := nearestColumn(line, columns)
			withCol := line
			withCol.Column = idx
			buckets[idx] = append(buckets[idx], withCol)
		}
		for _, bucket := range buckets {
			sort.SliceStable(bucket, func(i, j int) bool {
				return bucket[i].Rect.Top() > bucket[j].Rect.Top()
			})
			ordered = append(ordered, bucket...)
		}
		segments = append(segments, Segment{
			Kind: SegmentColumns, Start: start, End: len(ordered),
			Top: top, Bottom: bottom,
		})
	}

	markColumnStarts(ordered, columns, content, config)
	return ordered, segments
}

// splitLinesAtGutters splits each line at inter-run gaps that cross a
// detected gutter. Line grouping merges same-Y runs from adjacent columns
// into one wide line; splitting restores one line per column. Contiguous
// text that spans a gutter without a gap (a centered title) is never split.
func splitLinesAtGutters(lines []Line, gutters []Gutter, page int, config LineConfig) []Line {
	if len(gutters) == 0 {
		return lines
	}

	out := make([]Line, 0, len(lines))
	for _, line := range lines {
		if len(line.Runs) < 2 {
			out = append(out, line)
			continue
		}

		var pieces [][]model.TextRun
		current := []model.TextRun{line.Runs[0]}
		for i := 1; i < len(line.Runs); i++ {
			prev := line.Runs[i-1]
			run := line.Runs[i]
			if gapCrossesGutter(prev.X+prev.Width, run.X, gutters) {
				pieces = append(pieces, current)
				current = nil
			}
			current = append(current, run)
		}
		pieces = append(pieces, current)

		if len(pieces) == 1 {
			out = append(out, line)
			continue
		}
		for _, piece := range pieces {
			out = append(out, buildLine(piece, page, config))
		}
	}
	return out
}

// gapCrossesGutter reports whether the horizontal interval [left, right]
// contains the center of any gutter.
func gapCrossesGutter(left, right float64, gutters []Gutter) bool {
	if right <= left {
		return false
	}
	for _, g := range gutters {
		if c := g.Center(); c >= left && c <= right {
			return true
		}
	}
	return false
}

// nearestColumn returns the index of the column containing the line's
// center, or the column with the nearest boundary when none contains it.
func nearestColumn(line Line, columns []ColumnBounds) int {
	center := line.Rect.Center().X
	best := 0
	bestDist := -1.0
	for i, col := range columns {
		if center >= col.Left && center <= col.Right {
			return i
		}
		dist := absFloat(center - col.Left)
		if d := absFloat(center - col.Right); d < dist {
			dist = d
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// markColumnStarts sets the AtColumnStart flag on lines that begin at the
// left margin of their column (or of the content area for full-width lines).
func markColumnStarts(lines []Line, columns []ColumnBounds, content model.Rect, config SegmentConfig) {
	for i := range lines {
		left := content.Left()
		if lines[i].Column >= 0 && lines[i].Column < len(columns) {
			left = columns[lines[i].Column].Left
		}
		lines[i].AtColumnStart = absFloat(lines[i].Rect.Left()-left) <= config.StartTolerance
	}
}
