package references

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/lexicon"
	"github.com/ChihshengJ/hover-sub000/model"
)

// Format identifies how the bibliography labels its entries.
type Format int

const (
	FormatUnknown Format = iota
	FormatBracketNumber        // [1]
	FormatParenNumber          // (1)
	FormatDotNumber            // 1.
	FormatAuthorYear           // unlabeled / hanging indent
)

// String returns a string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatBracketNumber:
		return "bracket-number"
	case FormatParenNumber:
		return "paren-number"
	case FormatDotNumber:
		return "dot-number"
	case FormatAuthorYear:
		return "author-year"
	default:
		return "unknown"
	}
}

// IsNumbered reports whether the format carries explicit entry numbers.
func (f Format) IsNumbered() bool {
	return f == FormatBracketNumber || f == FormatParenNumber || f == FormatDotNumber
}

// Anchor is one located, segmented bibliography entry. Anchors are immutable
// after extraction.
type Anchor struct {
	// Index is the entry's number for numbered formats, 0 otherwise.
	Index int

	// Page is the page the entry starts on.
	Page int

	// Start and End are the entry's start (top-left of its first line) and
	// end (bottom-right of its last line) coordinates.
	Start model.Point
	End   model.Point

	// Rect bounds the entry's lines on its starting page.
	Rect model.Rect

	// Text is the entry's concatenated raw text.
	Text string

	// Parsed author/year fields; empty when parsing was skipped or failed.
	FirstAuthorLastName string
	Authors             []string
	Year                string
	YearSuffix          string

	// Confidence of the segmentation boundary, in [0,1].
	Confidence float64

	// Format is the detected entry format.
	Format Format
}

// Segmentation confidence levels. Numbered entries are unambiguous;
// structural boundaries are strong; the lexical fallback is weakest.
const (
	confidenceNumbered   = 1.0
	confidenceFirstEntry = 0.9
	confidenceStructural = 0.85
	confidenceLexical    = 0.75
)

// numberingPatterns are tried in order during format detection.
var numberingPatterns = []struct {
	format Format
	re     *regexp.Regexp
}{
	{FormatBracketNumber, regexp.MustCompile(`^\s*\[(\d{1,4})\]`)},
	{FormatParenNumber, regexp.MustCompile(`^\s*\((\d{1,4})\)`)},
	{FormatDotNumber, regexp.MustCompile(`^\s*(\d{1,4})\.\s+`)},
}

// ExtractorConfig holds configuration for anchor extraction.
type ExtractorConfig struct {
	// GapFactor: a vertical gap exceeding this multiple of the document's
	// median line gap forces a new entry. Default: 1.5.
	GapFactor float64

	// ShortLineRatio: a line is "short" when narrower than this fraction
	// of the section's 75th-percentile line width. Default: 0.70.
	ShortLineRatio float64

	// ParseConfidence is the minimum segmentation confidence for an
	// unlabeled anchor to get author/year parsing. Default: 0.8.
	ParseConfidence float64

	// MinNumberedMatches is the minimum count of numbering-pattern lines
	// for a numbered format to be adopted. Default: 2.
	MinNumberedMatches int
}

// DefaultExtractorConfig returns the default extraction configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		GapFactor:          1.5,
		ShortLineRatio:     0.70,
		ParseConfidence:    0.8,
		MinNumberedMatches: 2,
	}
}

// Extractor segments a located bibliography section into anchors.
type Extractor struct {
	lex    *lexicon.Lexicon
	config ExtractorConfig
}

// NewExtractor creates an extractor with the default lexicon and
// configuration.
func NewExtractor() *Extractor {
	return NewExtractorWithConfig(lexicon.Default(), DefaultExtractorConfig())
}

// NewExtractorWithConfig creates an extractor with a custom lexicon and
// configuration.
func NewExtractorWithConfig(lex *lexicon.Lexicon, config ExtractorConfig) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Extractor{lex: lex, config: config}
}

// Extract segments the section into anchors. The document font statistics
// supply the baseline line gap used by structural boundary detection.
// Returns the anchors in reading order and the detected format.
func (e *Extractor) Extract(section *Section, stats layout.FontStats) ([]Anchor, Format) {
	if section == nil || len(section.Lines) == 0 {
		return nil, FormatUnknown
	}

	format := e.detectFormat(section.Lines)
	var anchors []Anchor
	if format.IsNumbered() {
		anchors = e.extractNumbered(section.Lines, format)
	} else {
		format = FormatAuthorYear
		anchors = e.extractUnlabeled(section.Lines, stats)
	}

	for i := range anchors {
		a := &anchors[i]
		if a.Format.IsNumbered() || a.Confidence >= e.config.ParseConfidence {
			parsed := parseAuthorsYear(a.Text)
			a.FirstAuthorLastName = parsed.FirstAuthorLastName
			a.Authors = parsed.Authors
			a.Year = parsed.Year
			a.YearSuffix = parsed.YearSuffix
		}
	}

	return anchors, format
}

// detectFormat picks the numbering format matching the most section lines,
// falling back to author-year when no numbered format is established.
func (e *Extractor) detectFormat(lines []layout.Line) Format {
	counts := make(map[Format]int)
	for _, line := range lines {
		for _, p := range numberingPatterns {
			if p.re.MatchString(line.Text) {
				counts[p.format]++
				break
			}
		}
	}

	best, bestCount := FormatAuthorYear, 0
	for _, p := range numberingPatterns {
		if c := counts[p.format]; c > bestCount {
			best, bestCount = p.format, c
		}
	}
	if bestCount < e.config.MinNumberedMatches {
		return FormatAuthorYear
	}
	return best
}

// extractNumbered starts a new anchor at every line matching the numbering
// pattern and appends all following lines until the next match.
func (e *Extractor) extractNumbered(lines []layout.Line, format Format) []Anchor {
	var re *regexp.Regexp
	for _, p := range numberingPatterns {
		if p.format == format {
			re = p.re
			break
		}
	}

	var anchors []Anchor
	var current []layout.Line
	index := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		a := buildAnchor(current, format, confidenceNumbered)
		a.Index = index
		anchors = append(anchors, a)
		current = nil
	}

	for _, line := range lines {
		if m := re.FindStringSubmatch(line.Text); m != nil {
			flush()
			index = parseInt(m[1])
			current = []layout.Line{line}
		} else if len(current) > 0 {
			current = append(current, line)
		}
		// Lines before the first numbered line are heading remnants; drop.
	}
	flush()

	return anchors
}

// extractUnlabeled runs structural boundary detection over the section.
func (e *Extractor) extractUnlabeled(lines []layout.Line, stats layout.FontStats) []Anchor {
	p75 := percentile(lineWidths(lines), 0.75)
	baselineGap := stats.MedianLineGap

	var anchors []Anchor
	var current []layout.Line
	anchorLeft := 0.0
	confidence := confidenceFirstEntry

	flush := func() {
		if len(current) == 0 {
			return
		}
		anchors = append(anchors, buildAnchor(current, FormatAuthorYear, confidence))
		current = nil
	}

	for i, line := range lines {
		if line.IsEmpty() {
			continue
		}
		if len(current) == 0 {
			current = []layout.Line{line}
			anchorLeft = line.Rect.Left()
			continue
		}

		prev := lines[i-1]
		isNew, strength := e.boundary(prev, line, anchorLeft, baselineGap, p75)
		if isNew {
			flush()
			current = []layout.Line{line}
			anchorLeft = line.Rect.Left()
			confidence = strength
		} else {
			current = append(current, line)
		}
	}
	flush()

	return anchors
}

// boundary decides whether line starts a new entry after prev, returning
// the decision and its confidence. anchorLeft is the left edge of the
// current entry's first line; baselineGap the document's median line gap;
// p75 the section's 75th-percentile line width.
func (e *Extractor) boundary(prev, line layout.Line, anchorLeft, baselineGap, p75 float64) (bool, float64) {
	indentTol := prev.Rect.Height / 2
	discontinuity := line.Page != prev.Page || line.Rect.Top() > prev.Rect.Bottom()

	if discontinuity {
		// A column or page break: a genuine entry boundary only when the
		// previous line ended short and the new line returns to the
		// column margin; a full-width previous line wrapped mid-entry.
		prevShort := p75 > 0 && prev.Width() < e.config.ShortLineRatio*p75
		switch {
		case prevShort && line.AtColumnStart:
			return true, confidenceStructural
		case !prevShort:
			return false, 0
		default:
			return e.lexicalBoundary(line), confidenceLexical
		}
	}

	// Oversized vertical gap forces a boundary.
	gap := prev.Rect.Bottom() - line.Rect.Top()
	if baselineGap > 0 && gap > e.config.GapFactor*baselineGap {
		return true, confidenceStructural
	}

	left := line.Rect.Left()
	switch {
	case left > anchorLeft+indentTol:
		// Hanging indent: continuation.
		return false, 0
	case left < anchorLeft-indentTol:
		// Back out to an outer margin: new entry.
		return true, confidenceStructural
	default:
		// Flush with the entry start: ambiguous, let the text decide.
		if e.lexicalBoundary(line) {
			return true, confidenceLexical
		}
		return false, 0
	}
}

// lexicalBoundary reports whether a line reads like the start of a new
// entry: a leading bracketed/parenthesized number or a capitalized surname,
// and not a continuation word.
var entryStartPattern = regexp.MustCompile(`^\s*(?:[\[(]?\d{1,4}[\]).]|[A-Z][A-Za-z'’\x60-]+[,.]?\s)`)

func (e *Extractor) lexicalBoundary(line layout.Line) bool {
	fields := strings.Fields(line.Text)
	if len(fields) == 0 {
		return false
	}
	if e.lex.IsContinuationWord(strings.Trim(fields[0], ",.;:")) {
		return false
	}
	return entryStartPattern.MatchString(line.Text)
}

// buildAnchor assembles an Anchor from its lines.
func buildAnchor(lines []layout.Line, format Format, confidence float64) Anchor {
	first, last := lines[0], lines[len(lines)-1]

	rect := first.Rect
	for _, line := range lines[1:] {
		if line.Page == first.Page {
			rect = rect.Union(line.Rect)
		}
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, line.Text)
	}

	return Anchor{
		Page:       first.Page,
		Start:      model.Point{X: first.Rect.Left(), Y: first.Rect.Top()},
		End:        model.Point{X: last.Rect.Right(), Y: last.Rect.Bottom()},
		Rect:       rect,
		Text:       strings.Join(parts, " "),
		Confidence: confidence,
		Format:     format,
	}
}

func lineWidths(lines []layout.Line) []float64 {
	widths := make([]float64, 0, len(lines))
	for _, line := range lines {
		widths = append(widths, line.Width())
	}
	return widths
}

// percentile returns the p-quantile (0..1) of values, 0 for empty input.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}

func parseInt(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
