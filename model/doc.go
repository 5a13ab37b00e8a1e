// Package model defines the core geometric and typographic data types shared
// by the analysis packages: points and rectangles in PDF page coordinates,
// and positioned text runs with font metadata.
//
// All coordinates follow the PDF convention: the origin is the bottom-left
// corner of the page and Y increases upward. "Top to bottom" iteration over
// page content therefore means descending Y.
package model
