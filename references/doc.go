// Package references locates the bibliography of a document and segments it
// into individual entries (anchors). Location uses heading heuristics over
// the indexed lines; segmentation uses the numbering pattern when the list
// is numbered, and structural boundary detection (indentation, vertical
// gaps, column breaks) with a lexical fallback otherwise.
//
// Anchors are immutable after extraction and are referenced, never owned, by
// the citations package.
package references
