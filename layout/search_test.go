package layout

import (
	"testing"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/model"
)

func searchDocument() *engine.MemoryDocument {
	return engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			makeRun(72, 700, 60, 10, "The quick"),
			makeRun(136, 700, 60, 10, "brown"),
			makeRun(72, 680, 120, 10, "fox jumps over"),
		}},
		{Width: 612, Height: 792, Runs: []model.TextRun{
			makeRun(72, 700, 120, 10, "nothing relevant"),
		}},
	})
}

func TestSearchSimple(t *testing.T) {
	ix, err := NewIndexer(searchDocument())
	if err != nil {
		t.Fatal(err)
	}

	matches := ix.Search("QUICK", 1, 2)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Page != 1 || m.Text != "quick" {
		t.Errorf("unexpected match: %+v", m)
	}
	if len(m.Rects) != 1 {
		t.Errorf("single-run match should have one rectangle, got %d", len(m.Rects))
	}
}

func TestSearchAcrossRunsAndLines(t *testing.T) {
	ix, err := NewIndexer(searchDocument())
	if err != nil {
		t.Fatal(err)
	}

	// "brown fox" wraps from the first line to the second.
	matches := ix.Search("brown fox", 1, 1)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if len(m.Rects) != 2 {
		t.Fatalf("line-wrapping match should carry one rect per line, got %d", len(m.Rects))
	}
	// First rect on the upper line, second on the lower.
	if m.Rects[0].Top() <= m.Rects[1].Top() {
		t.Error("match rectangles not in reading order")
	}
}

func TestSearchMergesRunsWithinLine(t *testing.T) {
	ix, err := NewIndexer(searchDocument())
	if err != nil {
		t.Fatal(err)
	}

	// "quick brown" spans two runs on the same line: one merged rect.
	matches := ix.Search("quick brown", 1, 1)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if len(matches[0].Rects) != 1 {
		t.Errorf("same-line match should merge run rects, got %d", len(matches[0].Rects))
	}
}

func TestSearchRange(t *testing.T) {
	ix, err := NewIndexer(searchDocument())
	if err != nil {
		t.Fatal(err)
	}

	if matches := ix.Search("fox", 2, 2); len(matches) != 0 {
		t.Errorf("page 2 should not match, got %d hits", len(matches))
	}
	if matches := ix.Search("relevant", 1, 0); len(matches) != 1 {
		t.Errorf("open-ended range should cover all pages, got %d hits", len(matches))
	}
	if matches := ix.Search("", 1, 2); matches != nil {
		t.Error("empty query must return nil")
	}
}
