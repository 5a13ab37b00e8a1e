// Package layout reconstructs the visual structure of a page from raw
// positioned text runs: it groups runs into lines, detects column gutters,
// segments the page into full-width and column bands, and emits the lines of
// each page in reading order.
//
// The package is purely geometric: it consumes the runs reported by the
// engine package and never inspects document semantics. Downstream packages
// (references, citations, crossref, outline) build on the ordered lines and
// font statistics produced here.
package layout
