package engine

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ChihshengJ/hover-sub000/model"
)

// PageData holds the extracted content of a single page.
type PageData struct {
	Width  float64         `json:"width"`
	Height float64         `json:"height"`
	Runs   []model.TextRun `json:"runs"`
	Links  []Link          `json:"links,omitempty"`
}

// MemoryDocument is a Document backed entirely by in-memory data. It is the
// implementation used by tests and by the hoverscan CLI, which loads a JSON
// dump produced by an engine-side exporter.
type MemoryDocument struct {
	PageList  []PageData              `json:"pages"`
	NamedDest map[string]*Destination `json:"namedDestinations,omitempty"`
	Outline   []Bookmark              `json:"bookmarks,omitempty"`
}

// NewMemoryDocument creates a document from per-page data.
func NewMemoryDocument(pages []PageData) *MemoryDocument {
	return &MemoryDocument{PageList: pages}
}

// LoadJSON reads a MemoryDocument from a JSON stream.
func LoadJSON(r io.Reader) (*MemoryDocument, error) {
	var doc MemoryDocument
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document dump: %w", err)
	}
	return &doc, nil
}

// LoadJSONFile reads a MemoryDocument from a JSON file on disk.
func LoadJSONFile(path string) (*MemoryDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document dump: %w", err)
	}
	defer f.Close()
	return LoadJSON(f)
}

// PageCount returns the number of pages.
func (d *MemoryDocument) PageCount() int {
	if d == nil {
		return 0
	}
	return len(d.PageList)
}

// PageSize returns the dimensions of a page, or zeros when out of range.
func (d *MemoryDocument) PageSize(page int) (float64, float64) {
	p := d.pageData(page)
	if p == nil {
		return 0, 0
	}
	return p.Width, p.Height
}

// TextRuns returns the text runs of a page, or nil when out of range.
func (d *MemoryDocument) TextRuns(page int) []model.TextRun {
	p := d.pageData(page)
	if p == nil {
		return nil
	}
	return p.Runs
}

// Links returns the native link annotations of a page.
func (d *MemoryDocument) Links(page int) []Link {
	p := d.pageData(page)
	if p == nil {
		return nil
	}
	return p.Links
}

// ResolveNamedDestination looks up a named destination.
func (d *MemoryDocument) ResolveNamedDestination(name string) *Destination {
	if d == nil || d.NamedDest == nil {
		return nil
	}
	return d.NamedDest[name]
}

// Bookmarks returns the embedded bookmark tree.
func (d *MemoryDocument) Bookmarks() []Bookmark {
	if d == nil {
		return nil
	}
	return d.Outline
}

func (d *MemoryDocument) pageData(page int) *PageData {
	if d == nil || page < 1 || page > len(d.PageList) {
		return nil
	}
	return &d.PageList[page-1]
}
