package references

import (
	"strings"

	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/lexicon"
)

// Section is the located bibliography span.
type Section struct {
	// HeadingText is the text of the bibliography heading line.
	HeadingText string

	// StartPage/StartY locate the heading; EndPage/EndY locate the first
	// line after the section (or the end of the document).
	StartPage int
	StartY    float64
	EndPage   int
	EndY      float64

	// Lines are the lines inside the section (heading excluded), in
	// reading order across pages.
	Lines []layout.Line
}

// LocatorConfig holds configuration for bibliography location.
type LocatorConfig struct {
	// SkipPages is the number of leading pages never scanned for the
	// heading (title page, TOC). Default: 2.
	SkipPages int

	// FontSizeSlack is the margin in points by which a heading must exceed
	// the body font to count as "larger". Default: 0.5.
	FontSizeSlack float64
}

// DefaultLocatorConfig returns the default locator configuration.
func DefaultLocatorConfig() LocatorConfig {
	return LocatorConfig{
		SkipPages:     2,
		FontSizeSlack: 0.5,
	}
}

// Locator finds the bibliography section of an indexed document.
type Locator struct {
	lex    *lexicon.Lexicon
	config LocatorConfig
}

// NewLocator creates a locator with the default lexicon and configuration.
func NewLocator() *Locator {
	return NewLocatorWithConfig(lexicon.Default(), DefaultLocatorConfig())
}

// NewLocatorWithConfig creates a locator with a custom lexicon and
// configuration.
func NewLocatorWithConfig(lex *lexicon.Lexicon, config LocatorConfig) *Locator {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Locator{lex: lex, config: config}
}

// Locate scans the document for the bibliography heading and returns the
// located section, or nil when no bibliography was found. The LAST matching
// heading in document order wins, so an entry in a table of contents cannot
// shadow the real section.
func (l *Locator) Locate(ix *layout.Indexer) *Section {
	ix.EnsurePagesIndexed(1, ix.PageCount())
	stats := ix.DocumentFontStats()

	startPage, startLine := -1, -1
	var heading *layout.Line

	for page := l.config.SkipPages + 1; page <= ix.PageCount(); page++ {
		lines := ix.OrderedLines(page)
		for i := range lines {
			line := &lines[i]
			if _, ok := l.lex.IsBibliographyHeading(line.Text); !ok {
				continue
			}
			if !l.distinguished(line, stats) {
				continue
			}
			startPage, startLine = page, i
			heading = line
		}
	}
	if heading == nil {
		return nil
	}

	section := &Section{
		HeadingText: strings.TrimSpace(heading.Text),
		StartPage:   startPage,
		StartY:      heading.Rect.Top(),
		EndPage:     ix.PageCount(),
		EndY:        0,
	}

	// Walk forward from the heading collecting section lines until the
	// next heading-like line or the end of the document.
scan:
	for page := startPage; page <= ix.PageCount(); page++ {
		lines := ix.OrderedLines(page)
		first := 0
		if page == startPage {
			first = startLine + 1
		}
		for i := first; i < len(lines); i++ {
			line := lines[i]
			if l.headingLike(&line, stats) {
				section.EndPage = page
				section.EndY = line.Rect.Top()
				break scan
			}
			section.Lines = append(section.Lines, line)
		}
	}

	return section
}

// distinguished reports whether a candidate heading line is visually set
// apart from body text: larger font, bold, or all-caps.
func (l *Locator) distinguished(line *layout.Line, stats layout.FontStats) bool {
	if stats.Size > 0 && line.FontSize > stats.Size+l.config.FontSizeSlack {
		return true
	}
	return line.Style.IsBold() || line.IsAllCaps()
}

// headingLike reports whether a line inside the section terminates it.
// Reference entries match the body font; a larger, bold, or all-caps line
// signals the next section (e.g. an appendix).
func (l *Locator) headingLike(line *layout.Line, stats layout.FontStats) bool {
	if line.IsEmpty() {
		return false
	}
	if stats.Size > 0 && line.FontSize > stats.Size+l.config.FontSizeSlack {
		return true
	}
	if line.Style.IsBold() && !line.IsCommonFont {
		return true
	}
	return line.IsAllCaps() && line.WordCount() <= 6
}
