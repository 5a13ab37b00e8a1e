package layout

import (
	"math"

	"github.com/ChihshengJ/hover-sub000/model"
)

// FontStats describes the body text of a page or document: the most common
// font size and style, plus the typical line height and inter-line gap.
type FontStats struct {
	// Size is the body font size (mode across lines, rounded to 0.1pt).
	Size float64

	// Style is the most common font style across lines.
	Style model.FontStyle

	// LineHeight is the median height of body-font lines.
	LineHeight float64

	// MedianLineGap is the median vertical gap between consecutive lines
	// in the same column, the document-wide baseline for boundary
	// detection in the references package.
	MedianLineGap float64
}

// fontSizeTolerance is the matching tolerance for the body font in points.
const fontSizeTolerance = 0.5

// MatchesBody reports whether a line matches the body font in both size and
// style.
func (s FontStats) MatchesBody(line *Line) bool {
	if s.Size <= 0 || line == nil {
		return false
	}
	return absFloat(line.FontSize-s.Size) <= fontSizeTolerance && line.Style == s.Style
}

// computeFontStats derives body-font statistics from a page's lines.
func computeFontStats(lines []Line) FontStats {
	if len(lines) == 0 {
		return FontStats{}
	}

	sizeCounts := map[float64]int{}
	styleCounts := map[model.FontStyle]int{}
	for _, line := range lines {
		sizeCounts[roundTenth(line.FontSize)]++
		styleCounts[line.Style]++
	}

	stats := FontStats{}
	bestCount := -1
	for size, count := range sizeCounts {
		if count > bestCount || (count == bestCount && size < stats.Size) {
			stats.Size, bestCount = size, count
		}
	}
	bestCount = -1
	for style, count := range styleCounts {
		if count > bestCount || (count == bestCount && style < stats.Style) {
			stats.Style, bestCount = style, count
		}
	}

	// Line height: median over lines matching the body size.
	var heights []float64
	for _, line := range lines {
		if absFloat(roundTenth(line.FontSize)-stats.Size) <= fontSizeTolerance {
			heights = append(heights, line.Rect.Height)
		}
	}
	stats.LineHeight = median(heights)

	// Median gap between consecutive lines in the same column.
	var gaps []float64
	for i := 1; i < len(lines); i++ {
		prev, cur := lines[i-1], lines[i]
		if prev.Column != cur.Column {
			continue
		}
		gap := prev.Rect.Bottom() - cur.Rect.Top()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	stats.MedianLineGap = median(gaps)

	return stats
}

// markCommonFont sets the IsCommonFont flag on every line that matches the
// body font.
func markCommonFont(lines []Line, stats FontStats) {
	for i := range lines {
		lines[i].IsCommonFont = stats.MatchesBody(&lines[i])
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
