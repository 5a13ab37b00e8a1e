// Package citations detects in-text citations and resolves them against the
// segmented bibliography. Detection runs per page over ordered layout lines;
// native hyperlinks confirm or synthesize matches and adjust confidence.
package citations

import (
	"sort"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/references"
)

// Kind identifies the style of a detected citation.
type Kind int

const (
	KindNumeric Kind = iota
	KindAuthorYear
	KindSuperscript
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindAuthorYear:
		return "author-year"
	case KindSuperscript:
		return "superscript"
	default:
		return "unknown"
	}
}

// Flags describe properties of a detected citation.
type Flags uint8

const (
	// FlagRange marks an expanded index range such as [3-7].
	FlagRange Flags = 1 << iota
	// FlagMultiRef marks a citation naming several entries, e.g. [1,4].
	FlagMultiRef
	// FlagMultiYear marks an author-year citation with several years.
	FlagMultiYear
	// FlagNativeConfirmed marks a citation overlapping a native hyperlink.
	FlagNativeConfirmed
	// FlagDestinationConfirmed marks a citation whose overlapping link
	// resolves to a destination inside the bibliography section.
	FlagDestinationConfirmed
	// FlagSynthesized marks a citation created from a native link that no
	// textual pattern matched.
	FlagSynthesized
)

// Has reports whether all given flags are set.
func (f Flags) Has(flags Flags) bool { return f&flags == flags }

// Citation is one detected in-text citation, resolved against the
// bibliography where possible.
type Citation struct {
	// Kind is the citation style that matched.
	Kind Kind

	// Text is the matched source text.
	Text string

	// Page is the page the citation appears on.
	Page int

	// Rects bound the citation text, one rectangle per line touched.
	Rects []model.Rect

	// RefIndices are the bibliography entry numbers named by a numeric
	// citation, expanded from ranges. Empty for author-year citations.
	RefIndices []int

	// AuthorKey and YearKey are the lookup keys of an author-year citation.
	AuthorKey string
	YearKey   string

	// Confidence of the resolution, in [0,1].
	Confidence float64

	// Flags describe range expansion, multiplicity and link confirmation.
	Flags Flags

	// Target is the best-matching bibliography anchor, nil when
	// unresolved. AllTargets lists every matched anchor for multi-entry
	// citations, in citation order.
	Target     *references.Anchor
	AllTargets []*references.Anchor
}

// Config holds configuration for citation detection.
type Config struct {
	// DominanceSample is the number of leading anchors inspected to pick
	// the dominant citation style. Default: 25.
	DominanceSample int

	// SuperscriptHeightRatio: a run counts as superscript when shorter
	// than this fraction of the body line height. Default: 0.55.
	SuperscriptHeightRatio float64

	// SuperscriptMinYield: the superscript pass runs only when the
	// pattern passes found fewer citations than this on the page.
	// Default: 2.
	SuperscriptMinYield int

	// MaxRangeSpan caps expansion of numeric ranges. Default: 200.
	MaxRangeSpan int

	// LinkOverlapTolerance is the slack in points when intersecting
	// citation rects with native link rects. Default: 5.
	LinkOverlapTolerance float64

	// NativeBoost and DestinationBoost are confidence bonuses for
	// link-confirmed citations. Defaults: 0.2 and 0.25.
	NativeBoost      float64
	DestinationBoost float64

	// SynthesizedConfidence is the baseline for citations created from
	// unmatched bibliography-bound links. Default: 0.85.
	SynthesizedConfidence float64

	// MinConfidence filters citations after link fusion. Default: 0.3.
	MinConfidence float64
}

// DefaultConfig returns the default detection configuration.
func DefaultConfig() Config {
	return Config{
		DominanceSample:        25,
		SuperscriptHeightRatio: 0.55,
		SuperscriptMinYield:    2,
		MaxRangeSpan:           200,
		LinkOverlapTolerance:   5.0,
		NativeBoost:            0.2,
		DestinationBoost:       0.25,
		SynthesizedConfidence:  0.85,
		MinConfidence:          0.3,
	}
}

// Detector finds citations on document pages. It is safe for concurrent use
// once constructed.
type Detector struct {
	doc     engine.Document
	ix      *layout.Indexer
	section *references.Section
	anchors []references.Anchor
	byIndex map[int]*references.Anchor
	numeric bool
	config  Config
}

// NewDetector creates a detector over a document's indexed layout and its
// segmented bibliography. The anchor slice may be empty, in which case only
// link-synthesized citations can be produced.
func NewDetector(doc engine.Document, ix *layout.Indexer, section *references.Section, anchors []references.Anchor) *Detector {
	return NewDetectorWithConfig(doc, ix, section, anchors, DefaultConfig())
}

// NewDetectorWithConfig creates a detector with a custom configuration.
func NewDetectorWithConfig(doc engine.Document, ix *layout.Indexer, section *references.Section, anchors []references.Anchor, config Config) *Detector {
	d := &Detector{
		doc:     doc,
		ix:      ix,
		section: section,
		anchors: anchors,
		byIndex: make(map[int]*references.Anchor, len(anchors)),
		config:  config,
	}
	for i := range anchors {
		if idx := anchors[i].Index; idx > 0 {
			d.byIndex[idx] = &anchors[i]
		}
	}
	d.numeric = dominantlyNumbered(anchors, config.DominanceSample)
	return d
}

// dominantlyNumbered reports whether the leading sample of anchors carries
// explicit entry numbers.
func dominantlyNumbered(anchors []references.Anchor, sample int) bool {
	if len(anchors) == 0 {
		return false
	}
	if sample > len(anchors) {
		sample = len(anchors)
	}
	numbered := 0
	for _, a := range anchors[:sample] {
		if a.Format.IsNumbered() {
			numbered++
		}
	}
	return numbered*2 > sample
}

// Detect finds the citations on one page, in reading order. Pages inside the
// bibliography section itself yield no citations. Returns nil for
// out-of-range pages.
func (d *Detector) Detect(page int) []Citation {
	pl := d.ix.EnsurePageIndexed(page)
	if pl == nil || d.inBibliographyBody(page) {
		return nil
	}

	// Both style passes run; citations of the non-dominant style keep
	// their match but carry damped confidence.
	var cits []Citation
	if d.numeric {
		cits = d.detectNumeric(pl)
		if len(cits) < d.config.SuperscriptMinYield {
			cits = append(cits, d.detectSuperscript(pl)...)
		}
		cits = append(cits, dampNonDominant(d.detectAuthorYear(pl))...)
	} else {
		cits = d.detectAuthorYear(pl)
		cits = append(cits, dampNonDominant(d.detectNumeric(pl))...)
	}

	cits = d.fuseLinks(page, cits)

	filtered := cits[:0]
	for _, c := range cits {
		if c.Confidence >= d.config.MinConfidence {
			filtered = append(filtered, c)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		ri, rj := firstRect(filtered[i]), firstRect(filtered[j])
		if ri.Top() != rj.Top() {
			return ri.Top() > rj.Top()
		}
		return ri.Left() < rj.Left()
	})
	return filtered
}

// inBibliographyBody reports whether a page lies strictly inside the
// bibliography span with no body text of its own.
func (d *Detector) inBibliographyBody(page int) bool {
	if d.section == nil {
		return false
	}
	return page > d.section.StartPage && page < d.section.EndPage
}

// dampNonDominant scales down the confidence of citations found by the
// style pass that disagrees with the bibliography's dominant format.
func dampNonDominant(cits []Citation) []Citation {
	for i := range cits {
		cits[i].Confidence *= formatDamping
	}
	return cits
}

func firstRect(c Citation) model.Rect {
	if len(c.Rects) == 0 {
		return model.Rect{}
	}
	return c.Rects[0]
}
