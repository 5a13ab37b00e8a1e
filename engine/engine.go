// Package engine defines the read-only interface to the external PDF engine
// that supplies the analysis pipeline with its inputs: positioned text runs,
// page dimensions, native link annotations, named destinations and the
// embedded bookmark tree.
//
// The engine itself (parsing, rendering) is an external collaborator; this
// package only describes what the analysis consumes. A MemoryDocument
// implementation backed by in-memory data is provided for tests and tooling.
package engine

import "github.com/ChihshengJ/hover-sub000/model"

// Document is the read-only view of an opened PDF document. Pages are
// numbered starting at 1. Implementations must be safe for concurrent reads;
// the analysis pipeline indexes pages in parallel.
type Document interface {
	// PageCount returns the number of pages in the document.
	PageCount() int

	// PageSize returns the width and height of a page in points.
	// Returns zeros for an out-of-range page.
	PageSize(page int) (width, height float64)

	// TextRuns returns the positioned text runs of a page in engine
	// (content-stream) order. A nil or empty slice means the engine could
	// not extract text for the page; this is not an error condition.
	TextRuns(page int) []model.TextRun

	// Links returns the native link annotations of a page. Links whose
	// destination could not be resolved carry a nil Destination.
	Links(page int) []Link

	// ResolveNamedDestination resolves a named destination to a concrete
	// location, or nil when unknown.
	ResolveNamedDestination(name string) *Destination

	// Bookmarks returns the document's embedded bookmark tree, or nil when
	// the document has none.
	Bookmarks() []Bookmark
}

// Destination is a concrete location inside the document.
type Destination struct {
	Page int     `json:"page"` // 1-based
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// IsValid reports whether the destination points at a plausible location.
// Engines emit (0,0) coordinates for destinations they could not resolve;
// those are treated as "no valid destination".
func (d *Destination) IsValid() bool {
	if d == nil || d.Page < 1 {
		return false
	}
	return d.X != 0 || d.Y != 0
}

// Link is a native link annotation on a page.
type Link struct {
	Page int        `json:"page"` // page the annotation appears on, 1-based
	Rect model.Rect `json:"rect"`

	// Dest is the resolved internal destination, nil for external URLs or
	// unresolvable targets.
	Dest *Destination `json:"dest,omitempty"`

	// Named is the raw named-destination string when the annotation uses
	// one; resolved lazily via Document.ResolveNamedDestination.
	Named string `json:"named,omitempty"`
}

// ResolveDest returns the link's concrete destination, consulting the
// document's named-destination table when necessary. Returns nil when the
// link has no valid internal destination.
func (l Link) ResolveDest(doc Document) *Destination {
	if l.Dest.IsValid() {
		return l.Dest
	}
	if l.Named != "" && doc != nil {
		if d := doc.ResolveNamedDestination(l.Named); d.IsValid() {
			return d
		}
	}
	return nil
}

// Bookmark is a node of the document's embedded outline tree.
type Bookmark struct {
	Title    string       `json:"title"`
	Dest     *Destination `json:"dest,omitempty"`
	Children []Bookmark   `json:"children,omitempty"`
}
