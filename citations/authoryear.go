package citations

import (
	"regexp"
	"strings"

	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/model"
)

var (
	// parenGroup matches a parenthesized span that may hold one or more
	// citations separated by semicolons.
	parenGroup = regexp.MustCompile(`\(([^()]{2,160})\)`)

	// citeYear matches a publication year with an optional suffix letter.
	citeYear = regexp.MustCompile(`\b((?:1[89]|20)\d{2})([a-z])?\b`)

	// citeSurname grabs a capitalized surname token inside a citation
	// segment, wherever it starts: prefix phrases like "e.g.," or "cf."
	// may precede the author list.
	citeSurname = regexp.MustCompile(`\b[A-Z][A-Za-z'’\x60-]+`)

	// secondCiteSurname grabs a conjoined second surname.
	secondCiteSurname = regexp.MustCompile(`(?:\band\b|&)\s+([A-Z][A-Za-z'’\x60-]+)`)

	// narrativeCite matches prose citations: "Smith (2020)",
	// "Smith et al. (2019)", "Smith and Jones (2021)".
	narrativeCite = regexp.MustCompile(`\b([A-Z][A-Za-z'’\x60-]+)((?:\s+et\s+al\.?)|(?:\s+(?:and|&)\s+[A-Z][A-Za-z'’\x60-]+))?\s*\(((?:1[89]|20)\d{2}[a-z]?)\)`)
)

// detectAuthorYear scans the page's lines for parenthetical and narrative
// author-year citations.
func (d *Detector) detectAuthorYear(pl *layout.PageLayout) []Citation {
	var cits []Citation
	for i := range pl.Lines {
		line := &pl.Lines[i]
		if d.lineInBibliography(line) {
			continue
		}
		text := line.Text

		consumed := make([]bool, len(text))
		for _, loc := range narrativeCite.FindAllStringSubmatchIndex(text, -1) {
			surname := text[loc[2]:loc[3]]
			second := ""
			if loc[4] >= 0 {
				second = conjoinedSurname(text[loc[4]:loc[5]])
			}
			year := text[loc[6]:loc[7]]
			if c := d.authorYearCitation(line, text[loc[0]:loc[1]], loc[0], loc[1], surname, second, []string{year}); c != nil {
				cits = append(cits, *c)
			}
			for k := loc[0]; k < loc[1]; k++ {
				consumed[k] = true
			}
		}

		for _, loc := range parenGroup.FindAllStringSubmatchIndex(text, -1) {
			if consumed[loc[0]] {
				continue
			}
			cits = append(cits, d.parentheticalCitations(line, text, loc[2], loc[3])...)
		}
	}
	return cits
}

// parentheticalCitations splits the inside of a parenthesized group on
// semicolons and resolves each segment independently.
func (d *Detector) parentheticalCitations(line *layout.Line, text string, start, end int) []Citation {
	var cits []Citation
	segStart := start
	inner := text[start:end]
	for _, segment := range strings.Split(inner, ";") {
		segEnd := segStart + len(segment)
		c := d.parentheticalSegment(line, text, segStart, segEnd)
		if c != nil {
			cits = append(cits, *c)
		}
		segStart = segEnd + 1
	}
	return cits
}

func (d *Detector) parentheticalSegment(line *layout.Line, text string, start, end int) *Citation {
	segment := text[start:end]
	trimmed := strings.TrimSpace(segment)

	years := citeYear.FindAllStringSubmatch(trimmed, -1)
	if len(years) == 0 {
		return nil
	}
	firstYear := citeYear.FindStringIndex(trimmed)
	m := citeSurname.FindStringIndex(trimmed)
	if m == nil || m[0] >= firstYear[0] {
		// A bare year, e.g. the paren of a narrative citation already
		// consumed, or a date. Nothing to resolve.
		return nil
	}
	surname := trimmed[m[0]:m[1]]
	second := ""
	if sm := secondCiteSurname.FindStringSubmatch(trimmed); sm != nil {
		second = sm[1]
	}

	yearKeys := make([]string, 0, len(years))
	for _, y := range years {
		yearKeys = append(yearKeys, y[1]+y[2])
	}
	return d.authorYearCitation(line, trimmed, start, end, surname, second, yearKeys)
}

// authorYearCitation resolves one author/year pair set against the anchors
// and builds the citation, or returns nil when the match is too weak.
func (d *Detector) authorYearCitation(line *layout.Line, text string, start, end int, surname, second string, yearKeys []string) *Citation {
	c := Citation{
		Kind:      KindAuthorYear,
		Text:      text,
		Page:      line.Page,
		Rects:     []model.Rect{line.RangeRect(start, end)},
		AuthorKey: surname,
		YearKey:   yearKeys[0],
	}
	if len(yearKeys) > 1 {
		c.Flags |= FlagMultiYear
	}

	best := 0.0
	for _, yearKey := range yearKeys {
		anchor, score := d.resolveAuthorYear(surname, second, yearKey)
		if anchor == nil {
			continue
		}
		c.AllTargets = append(c.AllTargets, anchor)
		if c.Target == nil || score > best {
			c.Target = anchor
		}
		if score > best {
			best = score
		}
	}
	if best < discardThreshold {
		return nil
	}
	c.Confidence = best
	return &c
}

// conjoinedSurname extracts the surname from a narrative "and X"/"et al"
// tail, returning "" for "et al".
func conjoinedSurname(tail string) string {
	if m := secondCiteSurname.FindStringSubmatch(tail); m != nil {
		return m[1]
	}
	return ""
}
