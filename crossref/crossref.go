// Package crossref detects intra-document cross-references: mentions of
// figures, tables, sections, equations, algorithms, theorems and appendices,
// resolved against the definitions (captions, headings, numbered displays)
// found elsewhere in the document. Pattern pairs come from the lexicon
// tables; native links confirm resolved references.
package crossref

import (
	"sort"
	"sync"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/lexicon"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/references"
)

// Definition is a located cross-reference target: a caption, heading or
// numbered display.
type Definition struct {
	// Kind is the lexicon kind, e.g. "figure" or "section".
	Kind string

	// TargetID is the identifier captured from the definition text, e.g.
	// "3" for "Figure 3" or "2.1" for a section heading.
	TargetID string

	// Page and Rect locate the definition line.
	Page int
	Rect model.Rect

	// Text is the definition line's text.
	Text string

	// Confidence of the definition, in [0,1].
	Confidence float64
}

// Reference is one in-text mention of a cross-reference target.
type Reference struct {
	// Kind and TargetID identify the mentioned target.
	Kind     string
	TargetID string

	// Page and Rects locate the mention.
	Page  int
	Rects []model.Rect

	// Text is the matched source text.
	Text string

	// Target is the resolved definition, nil when none was found.
	Target *Definition

	// Confidence of the resolution, in [0,1].
	Confidence float64

	// NativeConfirmed reports whether a native link overlaps the mention.
	NativeConfirmed bool
}

// Detection confidences. Styled definitions (bold captions, heading fonts)
// outrank bare pattern matches; references gain confidence from a resolved
// target and from native link confirmation.
const (
	confDefinitionStyled  = 0.9
	confDefinitionPattern = 0.7
	confResolved          = 0.9
	confUnresolved        = 0.5
	linkBoost             = 0.1
)

// Config holds configuration for cross-reference detection.
type Config struct {
	// CaptionWidthRatio: a caption-kind definition on an unstyled line is
	// accepted only when the line is narrower than this fraction of its
	// column. Default: 0.85.
	CaptionWidthRatio float64

	// HeadingFontSlack is the margin in points by which a section or
	// appendix definition must exceed the body font when it is not bold.
	// Default: 0.5.
	HeadingFontSlack float64

	// LinkOverlapTolerance is the slack in points when intersecting
	// reference rects with native link rects. Default: 5.
	LinkOverlapTolerance float64
}

// DefaultConfig returns the default detection configuration.
func DefaultConfig() Config {
	return Config{
		CaptionWidthRatio:    0.85,
		HeadingFontSlack:     0.5,
		LinkOverlapTolerance: 5.0,
	}
}

type defKey struct {
	kind string
	id   string
}

// Resolver finds cross-reference definitions and mentions. Definitions are
// scanned once, lazily, across the whole document; mention detection runs
// per page. Safe for concurrent use.
type Resolver struct {
	doc     engine.Document
	ix      *layout.Indexer
	lex     *lexicon.Lexicon
	section *references.Section
	config  Config

	scanOnce sync.Once
	defs     map[defKey]*Definition
	ordered  []Definition
}

// NewResolver creates a resolver over a document's indexed layout. The
// bibliography section, when known, masks its pages from definition and
// mention scanning; pass nil when no bibliography was located.
func NewResolver(doc engine.Document, ix *layout.Indexer, section *references.Section) *Resolver {
	return NewResolverWithConfig(doc, ix, section, lexicon.Default(), DefaultConfig())
}

// NewResolverWithConfig creates a resolver with a custom lexicon and
// configuration.
func NewResolverWithConfig(doc engine.Document, ix *layout.Indexer, section *references.Section, lex *lexicon.Lexicon, config Config) *Resolver {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Resolver{
		doc:     doc,
		ix:      ix,
		lex:     lex,
		section: section,
		config:  config,
	}
}

// Definitions returns every cross-reference definition in the document, in
// reading order. The first definition wins when an identifier is defined
// twice.
func (r *Resolver) Definitions() []Definition {
	r.scanDefinitions()
	return r.ordered
}

// scanDefinitions walks every page once and records definitions.
func (r *Resolver) scanDefinitions() {
	r.scanOnce.Do(func() {
		stats := r.ix.DocumentFontStats()
		seen := make(map[defKey]bool)

		for page := 1; page <= r.ix.PageCount(); page++ {
			pl := r.ix.EnsurePageIndexed(page)
			if pl == nil {
				continue
			}
			for i := range pl.Lines {
				line := &pl.Lines[i]
				if r.lineInBibliography(line) {
					continue
				}
				for _, kind := range r.lex.CrossRefKinds() {
					m := kind.Definition.FindStringSubmatch(line.Text)
					if m == nil {
						continue
					}
					conf, ok := r.definitionConfidence(kind, line, pl, stats)
					if !ok {
						continue
					}
					key := defKey{kind: kind.Kind, id: m[1]}
					if seen[key] {
						continue
					}
					seen[key] = true
					r.ordered = append(r.ordered, Definition{
						Kind:       kind.Kind,
						TargetID:   m[1],
						Page:       page,
						Rect:       line.Rect,
						Text:       line.Text,
						Confidence: conf,
					})
				}
			}
		}

		r.defs = make(map[defKey]*Definition, len(r.ordered))
		for i := range r.ordered {
			def := &r.ordered[i]
			r.defs[defKey{kind: def.Kind, id: def.TargetID}] = def
		}
	})
}

// definitionConfidence gates a pattern match on the line's visual shape and
// returns the resulting confidence.
func (r *Resolver) definitionConfidence(kind lexicon.CrossRefKind, line *layout.Line, pl *layout.PageLayout, stats layout.FontStats) (float64, bool) {
	styled := line.Style != model.StyleRegular ||
		(stats.Size > 0 && line.FontSize > stats.Size+r.config.HeadingFontSlack)

	if kind.Caption {
		// Captions are either styled or set off as a short line.
		if styled {
			return confDefinitionStyled, true
		}
		if line.Width() < r.config.CaptionWidthRatio*r.columnWidth(line, pl) {
			return confDefinitionPattern, true
		}
		return 0, false
	}

	switch kind.Kind {
	case "section", "appendix":
		// Any numbered paragraph matches the pattern; only heading-shaped
		// lines count.
		if styled || !line.IsCommonFont {
			return confDefinitionStyled, true
		}
		return 0, false
	default:
		if styled {
			return confDefinitionStyled, true
		}
		return confDefinitionPattern, true
	}
}

// columnWidth returns the width of the line's column, or of the content
// area for full-width lines.
func (r *Resolver) columnWidth(line *layout.Line, pl *layout.PageLayout) float64 {
	if line.Column >= 0 && line.Column < len(pl.Columns) {
		return pl.Columns[line.Column].Width()
	}
	return pl.Content().Width
}

// ReferencesForPage finds the cross-reference mentions on one page, in
// reading order. Returns nil for out-of-range pages.
func (r *Resolver) ReferencesForPage(page int) []Reference {
	pl := r.ix.EnsurePageIndexed(page)
	if pl == nil {
		return nil
	}
	r.scanDefinitions()

	var refs []Reference
	for i := range pl.Lines {
		line := &pl.Lines[i]
		if r.lineInBibliography(line) {
			continue
		}
		for _, kind := range r.lex.CrossRefKinds() {
			for _, loc := range kind.Reference.FindAllStringSubmatchIndex(line.Text, -1) {
				targetID := line.Text[loc[2]:loc[3]]
				def := r.defs[defKey{kind: kind.Kind, id: targetID}]
				if def != nil && def.Page == page && def.Rect == line.Rect {
					// The definition line mentions its own identifier.
					continue
				}
				ref := Reference{
					Kind:       kind.Kind,
					TargetID:   targetID,
					Page:       page,
					Rects:      []model.Rect{line.RangeRect(loc[0], loc[1])},
					Text:       line.Text[loc[0]:loc[1]],
					Confidence: confUnresolved,
				}
				if def != nil {
					ref.Target = def
					ref.Confidence = confResolved
				}
				refs = append(refs, ref)
			}
		}
	}

	refs = r.fuseLinks(page, refs)

	sort.SliceStable(refs, func(i, j int) bool {
		ri, rj := refs[i].Rects[0], refs[j].Rects[0]
		if ri.Top() != rj.Top() {
			return ri.Top() > rj.Top()
		}
		return ri.Left() < rj.Left()
	})
	return refs
}

// fuseLinks marks references overlapped by native links that point outside
// the bibliography. Links into the bibliography belong to the citation
// detector, not to cross-references.
func (r *Resolver) fuseLinks(page int, refs []Reference) []Reference {
	if r.doc == nil || len(refs) == 0 {
		return refs
	}
	links := r.doc.Links(page)
	if len(links) == 0 {
		return refs
	}

	for i := range refs {
		ref := &refs[i]
		for _, link := range links {
			dest := link.ResolveDest(r.doc)
			if dest == nil || r.destInBibliography(dest) {
				continue
			}
			if !link.Rect.IntersectsWithin(ref.Rects[0], r.config.LinkOverlapTolerance) {
				continue
			}
			ref.NativeConfirmed = true
			ref.Confidence += linkBoost
			if ref.Confidence > 1 {
				ref.Confidence = 1
			}
			break
		}
	}
	return refs
}

// lineInBibliography reports whether a line falls inside the located
// bibliography span.
func (r *Resolver) lineInBibliography(line *layout.Line) bool {
	s := r.section
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

// destInBibliography reports whether a destination points inside the
// located bibliography span.
func (r *Resolver) destInBibliography(dest *engine.Destination) bool {
	s := r.section
	if s == nil || !dest.IsValid() {
		return false
	}
	if dest.Page < s.StartPage || dest.Page > s.EndPage {
		return false
	}
	if dest.Page == s.StartPage && dest.Y > s.StartY {
		return false
	}
	if dest.Page == s.EndPage && s.EndY > 0 && dest.Y < s.EndY {
		return false
	}
	return true
}
