package outline

import (
	"context"
	"testing"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/model"
)

func run(x, y, width, height float64, font string, size float64, text string) model.TextRun {
	return model.TextRun{
		Text: text, X: x, Y: y, Width: width, Height: height,
		FontName: font, FontSize: size,
	}
}

func body(y float64, text string) model.TextRun {
	return run(72, y, float64(len(text))*5, 10, "Times-Roman", 10, text)
}

func heading(y, size float64, text string) model.TextRun {
	return run(72, y, float64(len(text))*6, size, "Times-Bold", size, text)
}

// sectionedDocument has two top-level numbered headings at 14pt and one
// subsection at 12pt, surrounded by 10pt body text.
func sectionedDocument() *engine.MemoryDocument {
	return engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(700, 14, "1. Introduction"),
			body(680, "Opening prose establishing the body font size."),
			body(660, "More prose follows in the same ordinary style."),
			heading(640, 12, "1.1 Background"),
			body(620, "Background prose continues the paragraph flow."),
			body(600, "Even more prose to keep the statistics honest."),
			heading(580, 14, "2. Method"),
			body(560, "The method is plain prose like everything else."),
		}},
	})
}

func synthesizerFor(t *testing.T, doc engine.Document) *Synthesizer {
	t.Helper()
	ix, err := layout.NewIndexer(doc)
	if err != nil {
		t.Fatalf("NewIndexer: %v", err)
	}
	if err := ix.BuildIndex(context.Background(), nil); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return NewSynthesizer(doc, ix)
}

func TestSynthesizeNumberedHierarchy(t *testing.T) {
	s := synthesizerFor(t, sectionedDocument())

	roots := s.Outline()
	if len(roots) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(roots))
	}
	if roots[0].Title != "1. Introduction" || roots[1].Title != "2. Method" {
		t.Errorf("unexpected roots: %q, %q", roots[0].Title, roots[1].Title)
	}
	if roots[0].Level != 1 || roots[1].Level != 1 {
		t.Errorf("expected level 1 roots, got %d and %d", roots[0].Level, roots[1].Level)
	}
	if len(roots[0].Children) != 1 {
		t.Fatalf("expected 1 child under the introduction, got %d", len(roots[0].Children))
	}
	child := roots[0].Children[0]
	if child.Title != "1.1 Background" || child.Level != 2 {
		t.Errorf("unexpected child: %q at level %d", child.Title, child.Level)
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("expected no children under the method, got %d", len(roots[1].Children))
	}
}

func TestSynthesizeNodePositions(t *testing.T) {
	s := synthesizerFor(t, sectionedDocument())

	roots := s.Outline()
	if len(roots) == 0 {
		t.Fatal("expected an outline")
	}
	n := roots[0]
	if n.Page != 1 {
		t.Errorf("expected page 1, got %d", n.Page)
	}
	if n.Position.X != 72 || n.Position.Y != 714 {
		t.Errorf("unexpected position: %+v", n.Position)
	}
	if n.ID == "" {
		t.Error("expected a non-empty node ID")
	}
}

func TestSynthesizeIgnoresBodyText(t *testing.T) {
	doc := engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			body(700, "Nothing here looks like a heading at all."),
			body(680, "Just two lines of ordinary prose."),
		}},
	})
	s := synthesizerFor(t, doc)

	if roots := s.Outline(); roots != nil {
		t.Errorf("expected no outline from plain prose, got %d nodes", len(roots))
	}
}

func TestSynthesizeRejectsNumberedNoise(t *testing.T) {
	doc := engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(700, 14, "1. Introduction"),
			body(680, "Opening prose establishing the body font size."),
			body(660, "More prose follows in the same ordinary style."),
			heading(640, 14, "2. Method"),
			body(620, "The method is plain prose like everything else."),
			heading(600, 14, "57. Spurious Numbered Noise"),
		}},
	})
	s := synthesizerFor(t, doc)

	roots := s.Outline()
	if len(roots) != 2 {
		t.Fatalf("expected the numbered jump to be rejected, got %d roots", len(roots))
	}
	for _, n := range roots {
		if n.Title == "57. Spurious Numbered Noise" {
			t.Errorf("noise heading survived: %q", n.Title)
		}
	}
}

func TestSynthesizeTitleCaseHeading(t *testing.T) {
	doc := engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(700, 14, "1. Introduction"),
			body(680, "Opening prose establishing the body font size."),
			body(660, "More prose follows in the same ordinary style."),
			body(640, "A third line keeps the body font dominant."),
			body(620, "Implementation Details and Results"),
		}},
	})
	s := synthesizerFor(t, doc)

	roots := s.Outline()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if len(roots[0].Children) != 1 {
		t.Fatalf("expected the title-case heading as a child, got %d children", len(roots[0].Children))
	}
	if got := roots[0].Children[0].Title; got != "Implementation Details and Results" {
		t.Errorf("unexpected child title %q", got)
	}
}

func TestBookmarksWinOverSynthesis(t *testing.T) {
	doc := sectionedDocument()
	doc.Outline = []engine.Bookmark{
		{Title: "Chapter One", Dest: &engine.Destination{Page: 1, X: 72, Y: 714}, Children: []engine.Bookmark{
			{Title: "A Section", Dest: &engine.Destination{Page: 1, X: 72, Y: 650}},
		}},
	}
	s := synthesizerFor(t, doc)

	roots := s.Outline()
	if len(roots) != 1 {
		t.Fatalf("expected 1 bookmark root, got %d", len(roots))
	}
	if roots[0].Title != "Chapter One" || roots[0].Page != 1 {
		t.Errorf("unexpected root: %+v", roots[0])
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Level != 2 {
		t.Errorf("unexpected children: %+v", roots[0].Children)
	}
}

func TestBibliographyChildrenPruned(t *testing.T) {
	doc := engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(700, 14, "1. Introduction"),
			body(680, "Prose in the body font for statistics."),
			body(660, "More prose in the ordinary body style."),
			body(640, "A third line keeps the body font dominant."),
			heading(620, 14, "References"),
			heading(600, 12, "2020 Entries That Look Like Headings"),
		}},
	})
	s := synthesizerFor(t, doc)

	roots := s.Outline()
	var refs *Node
	for _, n := range roots {
		if n.Title == "References" {
			refs = n
		}
	}
	if refs == nil {
		t.Fatal("expected a references node")
	}
	if len(refs.Children) != 0 {
		t.Errorf("expected pruned reference children, got %d", len(refs.Children))
	}
}
