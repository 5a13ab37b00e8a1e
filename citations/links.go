package citations

import (
	"strings"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/references"
)

// fuseLinks reconciles detected citations with the page's native link
// annotations. A link overlapping a citation confirms it and raises its
// confidence; a bibliography-bound link no pattern matched is synthesized
// into a citation of its own.
func (d *Detector) fuseLinks(page int, cits []Citation) []Citation {
	if d.doc == nil {
		return cits
	}
	links := d.doc.Links(page)
	if len(links) == 0 {
		return cits
	}

	used := make([]bool, len(links))
	for i := range cits {
		c := &cits[i]
		for j, link := range links {
			if !overlapsAny(link.Rect, c.Rects, d.config.LinkOverlapTolerance) {
				continue
			}
			used[j] = true
			dest := link.ResolveDest(d.doc)
			if d.destInBibliography(dest) {
				c.Flags |= FlagDestinationConfirmed | FlagNativeConfirmed
				c.Confidence += d.config.DestinationBoost
				// The link's resolved destination outranks the
				// text-derived target.
				if a := d.anchorAtDestination(dest); a != nil {
					if !containsAnchor(c.AllTargets, a) {
						c.AllTargets = append(c.AllTargets, a)
					}
					c.Target = a
				}
			} else {
				c.Flags |= FlagNativeConfirmed
				c.Confidence += d.config.NativeBoost
			}
			if c.Confidence > 1 {
				c.Confidence = 1
			}
			break
		}
	}

	for j, link := range links {
		if used[j] {
			continue
		}
		dest := link.ResolveDest(d.doc)
		if !d.destInBibliography(dest) {
			continue
		}
		cits = append(cits, d.synthesizeCitation(page, link, dest))
	}
	return cits
}

// synthesizeCitation builds a citation from a bibliography-bound link that
// no textual pattern matched. Engines emit such links for citations the
// pattern passes cannot see, e.g. styled superscripts or unusual markers.
func (d *Detector) synthesizeCitation(page int, link engine.Link, dest *engine.Destination) Citation {
	kind := KindAuthorYear
	if d.numeric {
		kind = KindNumeric
	}
	c := Citation{
		Kind:       kind,
		Text:       d.linkText(page, link),
		Page:       page,
		Rects:      []model.Rect{link.Rect},
		Confidence: d.config.SynthesizedConfidence,
		Flags:      FlagSynthesized | FlagNativeConfirmed | FlagDestinationConfirmed,
	}
	if a := d.anchorAtDestination(dest); a != nil {
		c.Target = a
		c.AllTargets = []*references.Anchor{a}
		if a.Index > 0 {
			c.RefIndices = []int{a.Index}
		}
	}
	return c
}

// linkText collects the text of the runs under a link annotation.
func (d *Detector) linkText(page int, link engine.Link) string {
	pl := d.ix.Page(page)
	if pl == nil {
		return ""
	}
	var parts []string
	for _, line := range pl.LinesInRect(link.Rect) {
		for _, run := range line.Runs {
			if run.Rect().IntersectsWithin(link.Rect, d.config.LinkOverlapTolerance) {
				parts = append(parts, run.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// destInBibliography reports whether a destination points inside the
// located bibliography span.
func (d *Detector) destInBibliography(dest *engine.Destination) bool {
	s := d.section
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

// anchorAtDestination finds the entry a destination points at: the topmost
// anchor on the destination page starting at or below the destination.
// Engines place destinations slightly above the entry they target.
const destinationSlack = 5.0

func (d *Detector) anchorAtDestination(dest *engine.Destination) *references.Anchor {
	if !dest.IsValid() {
		return nil
	}
	var best *references.Anchor
	for i := range d.anchors {
		a := &d.anchors[i]
		if a.Page != dest.Page || a.Start.Y > dest.Y+destinationSlack {
			continue
		}
		if best == nil || a.Start.Y > best.Start.Y {
			best = a
		}
	}
	return best
}

func containsAnchor(anchors []*references.Anchor, a *references.Anchor) bool {
	for _, other := range anchors {
		if other == a {
			return true
		}
	}
	return false
}

// overlapsAny reports whether a rect intersects any of the given rects
// within the tolerance.
func overlapsAny(r model.Rect, rects []model.Rect, tolerance float64) bool {
	for _, other := range rects {
		if r.IntersectsWithin(other, tolerance) {
			return true
		}
	}
	return false
}
