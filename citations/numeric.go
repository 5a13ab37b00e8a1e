package citations

import (
	"regexp"
	"strings"

	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/references"
)

var (
	// interBracketRange matches a range written across brackets: [17]-[19].
	interBracketRange = regexp.MustCompile(`\[(\d{1,4})\]\s*[-–—]\s*\[(\d{1,4})\]`)

	// bracketGroup matches a single bracket with index lists and in-bracket
	// ranges: [3], [1,4], [3-7].
	bracketGroup = regexp.MustCompile(`\[(\d{1,4}(?:\s*[,\-–—]\s*\d{1,4})*)\]`)

	// indexToken parses one list element, optionally a range.
	indexToken = regexp.MustCompile(`(\d{1,4})(?:\s*[-–—]\s*(\d{1,4}))?`)
)

// detectNumeric scans the page's lines for bracketed index citations.
func (d *Detector) detectNumeric(pl *layout.PageLayout) []Citation {
	var cits []Citation
	for i := range pl.Lines {
		line := &pl.Lines[i]
		if d.lineInBibliography(line) {
			continue
		}
		text := line.Text

		consumed := make([]bool, len(text))
		for _, loc := range interBracketRange.FindAllStringSubmatchIndex(text, -1) {
			from := parseIndex(text[loc[2]:loc[3]])
			to := parseIndex(text[loc[4]:loc[5]])
			indices := expandRange(from, to, d.config.MaxRangeSpan)
			if c := d.numericCitation(line, text[loc[0]:loc[1]], loc[0], loc[1], indices, FlagRange|FlagMultiRef); c != nil {
				cits = append(cits, *c)
			}
			for k := loc[0]; k < loc[1]; k++ {
				consumed[k] = true
			}
		}

		for _, loc := range bracketGroup.FindAllStringSubmatchIndex(text, -1) {
			if consumed[loc[0]] {
				continue
			}
			indices, flags := parseIndexList(text[loc[2]:loc[3]], d.config.MaxRangeSpan)
			if c := d.numericCitation(line, text[loc[0]:loc[1]], loc[0], loc[1], indices, flags); c != nil {
				cits = append(cits, *c)
			}
		}
	}
	return cits
}

// numericCitation resolves a bracketed index list against the bibliography.
// Indices naming no entry are dropped from the citation and confidence is
// the fraction of indices that resolved; a citation none of whose indices
// name an entry is dropped entirely, because bracketed numbers also appear
// as equation references.
func (d *Detector) numericCitation(line *layout.Line, text string, start, end int, indices []int, flags Flags) *Citation {
	if len(indices) == 0 {
		return nil
	}

	c := Citation{
		Kind:  KindNumeric,
		Text:  text,
		Page:  line.Page,
		Rects: []model.Rect{line.RangeRect(start, end)},
		Flags: flags,
	}

	valid := make([]int, 0, len(indices))
	for _, idx := range indices {
		if a := d.byIndex[idx]; a != nil {
			c.AllTargets = append(c.AllTargets, a)
			valid = append(valid, idx)
		}
	}
	if len(valid) == 0 {
		return nil
	}
	c.RefIndices = valid
	c.Confidence = float64(len(valid)) / float64(len(indices))
	c.Target = c.AllTargets[0]
	return &c
}

// detectSuperscript finds bare superscript digit runs. It only fires on
// pages where the bracket patterns yielded almost nothing, because digit
// runs are also exponents and footnote marks.
func (d *Detector) detectSuperscript(pl *layout.PageLayout) []Citation {
	stats := d.ix.DocumentFontStats()
	if stats.LineHeight <= 0 {
		return nil
	}
	threshold := stats.LineHeight * d.config.SuperscriptHeightRatio

	var cits []Citation
	for i := range pl.Lines {
		line := &pl.Lines[i]
		if d.lineInBibliography(line) || len(line.Runs) < 2 {
			continue
		}
		for _, run := range line.Runs {
			digits := strings.TrimSpace(run.Text)
			if digits == "" || !allDigits(digits) || run.Height >= threshold {
				continue
			}
			idx := parseIndex(digits)
			anchor := d.byIndex[idx]
			if anchor == nil {
				continue
			}
			cits = append(cits, Citation{
				Kind:       KindSuperscript,
				Text:       digits,
				Page:       line.Page,
				Rects:      []model.Rect{run.Rect()},
				RefIndices: []int{idx},
				Confidence: superscriptBaseline,
				Target:     anchor,
				AllTargets: []*references.Anchor{anchor},
			})
		}
	}
	return cits
}

// lineInBibliography reports whether a line falls inside the located
// bibliography span on its page.
func (d *Detector) lineInBibliography(line *layout.Line) bool {
	s := d.section
	if s == nil || line.Page < s.StartPage || line.Page > s.EndPage {
		return false
	}
	if line.Page == s.StartPage && line.Rect.Top() > s.StartY {
		return false
	}
	if line.Page == s.EndPage && s.EndY > 0 && line.Rect.Top() < s.EndY {
		return false
	}
	return true
}

// parseIndexList parses the inside of a bracket group into expanded entry
// indices and the flags describing its shape.
func parseIndexList(inner string, maxSpan int) ([]int, Flags) {
	var indices []int
	var flags Flags
	tokens := 0
	for _, m := range indexToken.FindAllStringSubmatch(inner, -1) {
		tokens++
		from := parseIndex(m[1])
		if m[2] == "" {
			indices = append(indices, from)
			continue
		}
		flags |= FlagRange
		indices = append(indices, expandRange(from, parseIndex(m[2]), maxSpan)...)
	}
	if tokens > 1 || len(indices) > 1 {
		flags |= FlagMultiRef
	}
	return indices, flags
}

// expandRange expands [from, to] into individual indices, guarding against
// absurd spans produced by misparsed text.
func expandRange(from, to, maxSpan int) []int {
	if to < from || to-from > maxSpan {
		return nil
	}
	indices := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		indices = append(indices, i)
	}
	return indices
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseIndex(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
