package layout

import (
	"sort"
	"strings"

	"github.com/ChihshengJ/hover-sub000/model"
)

// Line is an ordered sequence of text runs sharing a vertical band on one
// page, together with attributes derived from its runs. Lines are built by
// the indexer and recomputed whenever a page is re-indexed.
type Line struct {
	// Runs are the text runs of the line, sorted left to right.
	Runs []model.TextRun

	// Text is the concatenated content of the runs, with spaces inserted at
	// significant gaps.
	Text string

	// Rect is the bounding rectangle of the line.
	Rect model.Rect

	// Page is the 1-based page number the line appears on.
	Page int

	// FontSize is the dominant (largest) font size in the line.
	FontSize float64

	// Style is the dominant font style in the line, weighted by run text
	// length so a single bold word does not make a line bold.
	Style model.FontStyle

	// Column is the index of the column the line was assigned to, or -1
	// for lines in full-width bands.
	Column int

	// AtColumnStart reports whether the line starts at the left margin of
	// its column (or of the content area for full-width lines).
	AtColumnStart bool

	// IsCommonFont reports whether the line matches the page's body font
	// in both size and style.
	IsCommonFont bool
}

// LineConfig holds configuration for grouping runs into lines.
type LineConfig struct {
	// MinYJoin is the minimum vertical tolerance in points for a run to
	// join the current line. Default: 4.
	MinYJoin float64

	// YJoinFactor scales the current line's height into a vertical join
	// tolerance. Default: 1.2.
	YJoinFactor float64

	// GapSpaceFactor scales a run's height into the minimum horizontal gap
	// that produces an inserted space during text assembly. Default: 0.15.
	GapSpaceFactor float64
}

// DefaultLineConfig returns the default line-grouping configuration.
func DefaultLineConfig() LineConfig {
	return LineConfig{
		MinYJoin:       4.0,
		YJoinFactor:    1.2,
		GapSpaceFactor: 0.15,
	}
}

// groupLines groups raw runs into lines. Runs are sorted by (Y desc, X asc);
// a run joins the current line while its vertical distance from the line's
// anchor stays within max(MinYJoin, lineHeight*YJoinFactor). Runs are
// re-sorted by X within each line. The returned lines are ordered top to
// bottom but carry no column or reading-order information yet.
func groupLines(runs []model.TextRun, page int, config LineConfig) []Line {
	if len(runs) == 0 {
		return nil
	}

	sorted := make([]model.TextRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y > sorted[j].Y // Higher Y first (top of page)
		}
		return sorted[i].X < sorted[j].X
	})

	var groups [][]model.TextRun
	var current []model.TextRun
	anchorY := 0.0
	lineHeight := 0.0

	for _, run := range sorted {
		if len(current) == 0 {
			current = []model.TextRun{run}
			anchorY = run.Y
			lineHeight = run.Height
			continue
		}

		tolerance := config.MinYJoin
		if h := lineHeight * config.YJoinFactor; h > tolerance {
			tolerance = h
		}
		if absFloat(run.Y-anchorY) <= tolerance {
			current = append(current, run)
			if run.Height > lineHeight {
				lineHeight = run.Height
			}
		} else {
			groups = append(groups, current)
			current = []model.TextRun{run}
			anchorY = run.Y
			lineHeight = run.Height
		}
	}
	groups = append(groups, current)

	lines := make([]Line, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].X < group[j].X
		})
		lines = append(lines, buildLine(group, page, config))
	}

	return lines
}

// buildLine assembles a Line from runs already sorted left to right.
func buildLine(runs []model.TextRun, page int, config LineConfig) Line {
	line := Line{
		Runs:   runs,
		Page:   page,
		Column: -1,
	}

	line.Rect = runsRect(runs)
	line.Text = assembleText(runs, config.GapSpaceFactor)
	line.FontSize = dominantFontSize(runs)
	line.Style = dominantStyle(runs)

	return line
}

// assembleText concatenates run text, inserting a space wherever the
// horizontal gap between adjacent runs is significant.
func assembleText(runs []model.TextRun, gapFactor float64) string {
	var sb strings.Builder
	for i, run := range runs {
		if i > 0 {
			prev := runs[i-1]
			gap := run.X - (prev.X + prev.Width)
			if gap > run.Height*gapFactor {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(run.Text)
	}
	return sb.String()
}

// dominantFontSize returns the largest effective font size among the runs.
func dominantFontSize(runs []model.TextRun) float64 {
	size := 0.0
	for _, run := range runs {
		if s := run.EffectiveFontSize(); s > size {
			size = s
		}
	}
	return size
}

// dominantStyle returns the style covering the most text in the line.
func dominantStyle(runs []model.TextRun) model.FontStyle {
	weights := map[model.FontStyle]int{}
	for _, run := range runs {
		weights[run.Style()] += len(run.Text)
	}
	best := model.StyleRegular
	bestWeight := -1
	for style, weight := range weights {
		if weight > bestWeight {
			best, bestWeight = style, weight
		}
	}
	return best
}

// runsRect computes the bounding rectangle of a set of runs.
func runsRect(runs []model.TextRun) model.Rect {
	if len(runs) == 0 {
		return model.Rect{}
	}
	rect := runs[0].Rect()
	for _, run := range runs[1:] {
		rect = rect.Union(run.Rect())
	}
	return rect
}

// Width returns the horizontal extent of the line.
func (l *Line) Width() float64 {
	return l.Rect.Width
}

// IsEmpty reports whether the line has no visible content.
func (l *Line) IsEmpty() bool {
	return l == nil || strings.TrimSpace(l.Text) == ""
}

// RangeRect returns the bounding rectangle of the byte range [start, end)
// of the line's text, sliced proportionally inside partially covered runs.
// Returns a zero rect for an empty or out-of-range interval.
func (l *Line) RangeRect(start, end int) model.Rect {
	if l == nil || start < 0 || start >= end || start >= len(l.Text) {
		return model.Rect{}
	}
	if end > len(l.Text) {
		end = len(l.Text)
	}

	var rect model.Rect
	have := false
	offset := 0
	for _, run := range l.Runs {
		// Skip over a space inserted during text assembly.
		if offset < len(l.Text) && l.Text[offset] == ' ' &&
			!strings.HasPrefix(l.Text[offset:], run.Text) {
			offset++
		}
		runStart := offset
		runEnd := offset + len(run.Text)
		offset = runEnd

		if runEnd <= start || runStart >= end {
			continue
		}
		r := run.Rect()
		if n := len(run.Text); n > 0 {
			lo, hi := 0.0, 1.0
			if start > runStart {
				lo = float64(start-runStart) / float64(n)
			}
			if end < runEnd {
				hi = float64(end-runStart) / float64(n)
			}
			r = model.NewRect(r.X+r.Width*lo, r.Y, r.Width*(hi-lo), r.Height)
		}
		if !have {
			rect, have = r, true
		} else {
			rect = rect.Union(r)
		}
	}
	return rect
}

// WordCount returns the number of whitespace-separated words in the line.
func (l *Line) WordCount() int {
	if l == nil {
		return 0
	}
	return len(strings.Fields(l.Text))
}

// IsAllCaps reports whether the line's letters are (almost) all uppercase.
// Lines with fewer than three letters are never considered all-caps.
func (l *Line) IsAllCaps() bool {
	if l == nil {
		return false
	}
	upper, lower := 0, 0
	for _, r := range l.Text {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		}
	}
	if upper+lower < 3 {
		return false
	}
	return lower == 0 || float64(upper)/float64(upper+lower) > 0.9
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
