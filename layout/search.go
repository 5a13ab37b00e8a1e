package layout

import (
	"unicode"

	"github.com/ChihshengJ/hover-sub000/model"
)

// Match is one search hit. A match that wraps across runs, lines or columns
// carries one rectangle per line touched, with the rectangles of adjacent
// runs on the same line merged.
type Match struct {
	// Page is the 1-based page number of the hit.
	Page int

	// Text is the matched text as it appears in the document.
	Text string

	// Rects are the bounding rectangles of the hit, in reading order.
	Rects []model.Rect
}

// charRef ties one rune of a page's search text back to its line and run.
// Separator runes inserted between runs and lines carry run == -1.
type charRef struct {
	line, run int
}

// Search scans the inclusive page range for case-insensitive substring
// matches of query, indexing pages on demand. Matches may span run, line
// and column boundaries; the single space inserted at each boundary matches
// a space in the query. An empty query returns nil.
func (ix *Indexer) Search(query string, fromPage, toPage int) []Match {
	queryRunes := foldRunes([]rune(query))
	if len(queryRunes) == 0 {
		return nil
	}
	if fromPage < 1 {
		fromPage = 1
	}
	if toPage > ix.PageCount() || toPage < 1 {
		toPage = ix.PageCount()
	}

	var matches []Match
	for page := fromPage; page <= toPage; page++ {
		pl := ix.EnsurePageIndexed(page)
		if pl.IsEmpty() {
			continue
		}
		matches = append(matches, searchPage(pl, queryRunes, ix.config.Line.GapSpaceFactor)...)
	}
	return matches
}

// searchPage performs the scan over one page's reading-order text.
func searchPage(pl *PageLayout, query []rune, gapFactor float64) []Match {
	text, refs := pageSearchText(pl, gapFactor)
	folded := foldRunes(text)

	var matches []Match
	for start := 0; start+len(query) <= len(folded); start++ {
		if !runesEqual(folded[start:start+len(query)], query) {
			continue
		}
		end := start + len(query)
		matches = append(matches, Match{
			Page:  pl.Page,
			Text:  string(text[start:end]),
			Rects: matchRects(pl, refs[start:end]),
		})
		// Continue after the first rune so overlapping hits are found.
	}
	return matches
}

// pageSearchText flattens a page into a rune stream plus a parallel
// line/run reference for every rune. A single space separates adjacent runs
// with a significant gap, and adjacent lines.
func pageSearchText(pl *PageLayout, gapFactor float64) ([]rune, []charRef) {
	var text []rune
	var refs []charRef

	appendRune := func(r rune, ref charRef) {
		text = append(text, r)
		refs = append(refs, ref)
	}

	for li, line := range pl.Lines {
		if li > 0 {
			appendRune(' ', charRef{line: li, run: -1})
		}
		for ri, run := range line.Runs {
			if ri > 0 {
				prev := line.Runs[ri-1]
				gap := run.X - (prev.X + prev.Width)
				if gap > run.Height*gapFactor {
					appendRune(' ', charRef{line: li, run: -1})
				}
			}
			for _, r := range run.Text {
				appendRune(r, charRef{line: li, run: ri})
			}
		}
	}

	return text, refs
}

// matchRects converts the refs of one match back into rectangles: per line
// touched, the union of the touched runs' rectangles.
func matchRects(pl *PageLayout, refs []charRef) []model.Rect {
	var rects []model.Rect
	currentLine := -1
	var current model.Rect
	haveRect := false

	flush := func() {
		if haveRect {
			rects = append(rects, current)
			haveRect = false
		}
	}

	for _, ref := range refs {
		if ref.run < 0 {
			continue // separator
		}
		if ref.line != currentLine {
			flush()
			currentLine = ref.line
		}
		runRect := pl.Lines[ref.line].Runs[ref.run].Rect()
		if !haveRect {
			current = runRect
			haveRect = true
		} else {
			current = current.Union(runRect)
		}
	}
	flush()

	return rects
}

// foldRunes lowercases runes one-by-one, preserving length so offsets into
// the folded text remain valid for the original.
func foldRunes(runes []rune) []rune {
	folded := make([]rune, len(runes))
	for i, r := range runes {
		folded[i] = unicode.ToLower(r)
	}
	return folded
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
