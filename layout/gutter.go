package layout

import (
	"sort"

	"github.com/ChihshengJ/hover-sub000/model"
)

// Gutter is an empty vertical band separating two text columns.
type Gutter struct {
	// Left and Right are the X extent of the gutter.
	Left, Right float64

	// LineCount is the number of lines that exhibited this gutter.
	LineCount int

	// Coverage is the fraction of page height the gutter spans.
	Coverage float64
}

// Center returns the horizontal center of the gutter.
func (g Gutter) Center() float64 {
	return (g.Left + g.Right) / 2
}

// ColumnBounds is the horizontal extent of one text column.
type ColumnBounds struct {
	Left  float64 `json:"left"`
	Right float64 `json:"right"`
}

// Width returns the width of the column.
func (c ColumnBounds) Width() float64 {
	return c.Right - c.Left
}

// GutterConfig holds configuration for column gutter detection. The
// defaults follow the PDFium-native pipeline; all values are tunable.
type GutterConfig struct {
	// GapMedianFactor: a line's largest inter-run gap is a gutter candidate
	// when it exceeds this multiple of the line's median gap. Default: 1.5.
	GapMedianFactor float64

	// GapWidthRatio: a gap is also a candidate when it exceeds this
	// fraction of the line's width. Default: 0.03.
	GapWidthRatio float64

	// ClusterToleranceRatio is the X-clustering tolerance as a fraction of
	// page width. Default: 0.02.
	ClusterToleranceRatio float64

	// LineThreshold is the minimum fraction of eligible lines a cluster
	// must appear on to be accepted. Default: 0.15.
	LineThreshold float64

	// MinVerticalCoverage is the minimum fraction of page height a gutter
	// must span. Default: 0.20.
	MinVerticalCoverage float64

	// EdgeMarginRatio keeps gutters away from the page edges: a gutter
	// center must lie at least this fraction of page width from either
	// edge. Default: 0.10.
	EdgeMarginRatio float64

	// MaxColumns is the maximum accepted number of columns. Default: 3.
	MaxColumns int

	// MinColumnWidthRatio and MaxColumnWidthRatio bound each column's width
	// as a fraction of content width. Defaults: 0.15 and 0.70.
	MinColumnWidthRatio float64
	MaxColumnWidthRatio float64
}

// DefaultGutterConfig returns the default gutter-detection configuration.
func DefaultGutterConfig() GutterConfig {
	return GutterConfig{
		GapMedianFactor:       1.5,
		GapWidthRatio:         0.03,
		ClusterToleranceRatio: 0.02,
		LineThreshold:         0.15,
		MinVerticalCoverage:   0.20,
		EdgeMarginRatio:       0.10,
		MaxColumns:            3,
		MinColumnWidthRatio:   0.15,
		MaxColumnWidthRatio:   0.70,
	}
}

// gutterCandidate is one line's largest significant inter-run gap.
type gutterCandidate struct {
	left, right float64
	top, bottom float64 // vertical extent of the line exhibiting the gap
}

func (c gutterCandidate) center() float64 {
	return (c.left + c.right) / 2
}

// detectGutters finds accepted column gutters and derives the column bounds
// of the content area. Any violation of the acceptance rules discards the
// whole candidate set and falls back to a single column (nil gutters, one
// column spanning the content area); the ambiguous return distinguishes
// that fallback from a page that never had gutter candidates.
func detectGutters(lines []Line, pageWidth, pageHeight float64, content model.Rect, config GutterConfig) (gutters []Gutter, columns []ColumnBounds, ambiguous bool) {
	single := []ColumnBounds{{Left: content.Left(), Right: content.Right()}}

	candidates, eligible := collectGutterCandidates(lines, config)
	if eligible == 0 || len(candidates) == 0 {
		return nil, single, false
	}

	clusters := clusterCandidates(candidates, pageWidth*config.ClusterToleranceRatio)

	minLines := int(config.LineThreshold * float64(eligible))
	if minLines < 2 {
		minLines = 2
	}

	for _, cluster := range clusters {
		g, ok := acceptCluster(cluster, pageWidth, pageHeight, minLines, config)
		if ok {
			gutters = append(gutters, g)
		}
	}
	if len(gutters) == 0 {
		return nil, single, false
	}

	sort.Slice(gutters, func(i, j int) bool { return gutters[i].Left < gutters[j].Left })

	// Too many gutters means the page is not a clean column layout.
	if len(gutters) > config.MaxColumns-1 {
		return nil, single, true
	}

	columns = columnsFromGutters(gutters, content)
	if !validColumns(columns, content.Width, config) {
		return nil, single, true
	}

	return gutters, columns, false
}

// collectGutterCandidates scans each line with at least two runs and records
// its largest inter-run gap when that gap is significant. Returns the
// candidates and the number of eligible lines.
func collectGutterCandidates(lines []Line, config GutterConfig) ([]gutterCandidate, int) {
	var candidates []gutterCandidate
	eligible := 0

	for _, line := range lines {
		if len(line.Runs) < 2 {
			continue
		}
		eligible++

		gaps := make([]float64, 0, len(line.Runs)-1)
		largest := 0.0
		largestIdx := -1
		for i := 1; i < len(line.Runs); i++ {
			gap := line.Runs[i].X - (line.Runs[i-1].X + line.Runs[i-1].Width)
			gaps = append(gaps, gap)
			if gap > largest {
				largest = gap
				largestIdx = i
			}
		}
		if largestIdx < 0 || largest <= 0 {
			continue
		}

		med := median(gaps)
		if largest > med*config.GapMedianFactor || largest > line.Width()*config.GapWidthRatio {
			prev := line.Runs[largestIdx-1]
			candidates = append(candidates, gutterCandidate{
				left:   prev.X + prev.Width,
				right:  line.Runs[largestIdx].X,
				top:    line.Rect.Top(),
				bottom: line.Rect.Bottom(),
			})
		}
	}

	return candidates, eligible
}

// clusterCandidates groups candidates whose gap centers lie within the X
// tolerance of the cluster's running mean.
func clusterCandidates(candidates []gutterCandidate, tolerance float64) [][]gutterCandidate {
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].center() < candidates[j].center()
	})

	var clusters [][]gutterCandidate
	var current []gutterCandidate
	mean := 0.0

	for _, c := range candidates {
		if len(current) == 0 {
			current = []gutterCandidate{c}
			mean = c.center()
			continue
		}
		if absFloat(c.center()-mean) <= tolerance {
			current = append(current, c)
			mean += (c.center() - mean) / float64(len(current))
		} else {
			clusters = append(clusters, current)
			current = []gutterCandidate{c}
			mean = c.center()
		}
	}
	clusters = append(clusters, current)

	return clusters
}

// acceptCluster validates a candidate cluster against the acceptance rules
// and converts it to a Gutter.
func acceptCluster(cluster []gutterCandidate, pageWidth, pageHeight float64, minLines int, config GutterConfig) (Gutter, bool) {
	if len(cluster) < minLines {
		return Gutter{}, false
	}

	// Narrowest common band across the cluster, and its vertical span.
	left, right := cluster[0].left, cluster[0].right
	top, bottom := cluster[0].top, cluster[0].bottom
	for _, c := range cluster[1:] {
		if c.left > left {
			left = c.left
		}
		if c.right < right {
			right = c.right
		}
		if c.top > top {
			top = c.top
		}
		if c.bottom < bottom {
			bottom = c.bottom
		}
	}
	if right <= left {
		return Gutter{}, false
	}

	coverage := 0.0
	if pageHeight > 0 {
		coverage = (top - bottom) / pageHeight
	}
	if coverage < config.MinVerticalCoverage {
		return Gutter{}, false
	}

	center := (left + right) / 2
	edgeMargin := pageWidth * config.EdgeMarginRatio
	if center < edgeMargin || center > pageWidth-edgeMargin {
		return Gutter{}, false
	}

	return Gutter{
		Left:      left,
		Right:     right,
		LineCount: len(cluster),
		Coverage:  coverage,
	}, true
}

// columnsFromGutters splits the content area at the gutters.
func columnsFromGutters(gutters []Gutter, content model.Rect) []ColumnBounds {
	columns := make([]ColumnBounds, 0, len(gutters)+1)
	left := content.Left()
	for _, g := range gutters {
		columns = append(columns, ColumnBounds{Left: left, Right: g.Left})
		left = g.Right
	}
	columns = append(columns, ColumnBounds{Left: left, Right: content.Right()})
	return columns
}

// validColumns checks that every column occupies a plausible share of the
// content width.
func validColumns(columns []ColumnBounds, contentWidth float64, config GutterConfig) bool {
	if len(columns) < 1 || len(columns) > config.MaxColumns || contentWidth <= 0 {
		return false
	}
	for _, col := range columns {
		ratio := col.Width() / contentWidth
		if ratio < config.MinColumnWidthRatio || ratio > config.MaxColumnWidthRatio {
			return false
		}
	}
	return true
}

// median returns the median of a slice of values, 0 for an empty slice.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
