package hover

import (
	"context"
	"testing"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/model"
	"github.com/ChihshengJ/hover-sub000/references"
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

// paper is a three page synthetic article: title and introduction with a
// numeric citation and a figure mention, a figure caption page, and a
// numbered bibliography.
func paper() *engine.MemoryDocument {
	return engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(720, 16, "A Study of Document Structure"),
			heading(690, 12, "1. Introduction"),
			body(670, "Prior work [1] established the basics."),
			body(650, "Results appear in Figure 1 as discussed."),
			body(630, "Further prose fills out the introduction."),
		}},
		{Width: 612, Height: 792, Runs: []model.TextRun{
			run(72, 700, 100, 10, "Times-Roman", 10, "Figure 1: A diagram"),
			body(680, "More prose referencing [2] right here."),
			body(660, "And a closing paragraph of plain text."),
		}},
		{Width: 612, Height: 792, Runs: []model.TextRun{
			heading(700, 12, "References"),
			body(680, "[1] A. One, 2020."),
			body(660, "[2] B. Two, 2021."),
		}},
	})
}

func indexFor(t *testing.T) *DocumentIndex {
	t.Helper()
	idx, err := New(paper(), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := idx.BuildIndex(context.Background(), nil); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func TestNewRejectsNilDocument(t *testing.T) {
	if _, err := New(nil, DefaultOptions()); err == nil {
		t.Fatal("expected an error for a nil document")
	}
}

func TestBuildIndexIsIdempotent(t *testing.T) {
	idx := indexFor(t)
	if err := idx.BuildIndex(context.Background(), nil); err != nil {
		t.Fatalf("second build: %v", err)
	}
	if got := len(idx.OrderedLines(1)); got != 5 {
		t.Errorf("expected 5 lines on page 1, got %d", got)
	}
}

func TestReferenceAnchors(t *testing.T) {
	idx := indexFor(t)

	anchors, format := idx.ReferenceAnchors(0)
	if format != references.FormatBracketNumber {
		t.Fatalf("expected bracket-number format, got %v", format)
	}
	if len(anchors) != 2 {
		t.Fatalf("expected 2 anchors, got %d", len(anchors))
	}
	if anchors[0].Index != 1 || anchors[0].Year != "2020" {
		t.Errorf("unexpected first anchor: %+v", anchors[0])
	}
	if anchors[1].Index != 2 || anchors[1].Year != "2021" {
		t.Errorf("unexpected second anchor: %+v", anchors[1])
	}
	if idx.Bibliography() == nil {
		t.Error("expected a located bibliography")
	}
}

func TestReferenceAnchorsPageFilter(t *testing.T) {
	idx := indexFor(t)

	onPage, _ := idx.ReferenceAnchors(3)
	if len(onPage) != 2 {
		t.Fatalf("expected 2 anchors on page 3, got %d", len(onPage))
	}
	if elsewhere, _ := idx.ReferenceAnchors(1); len(elsewhere) != 0 {
		t.Errorf("expected no anchors on page 1, got %d", len(elsewhere))
	}
}

func TestCitationsForPage(t *testing.T) {
	idx := indexFor(t)

	cits := idx.CitationsForPage(1)
	if len(cits) != 1 {
		t.Fatalf("expected 1 citation on page 1, got %d", len(cits))
	}
	if cits[0].Target == nil || cits[0].Target.Index != 1 {
		t.Errorf("unexpected target: %+v", cits[0].Target)
	}

	cits = idx.CitationsForPage(2)
	if len(cits) != 1 || cits[0].Target == nil || cits[0].Target.Index != 2 {
		t.Errorf("unexpected page 2 citations: %+v", cits)
	}
}

func TestMatchCitationToReference(t *testing.T) {
	idx := indexFor(t)

	anchor, conf := idx.MatchCitationToReference("One", "2020")
	if anchor == nil || anchor.Index != 1 {
		t.Fatalf("expected entry 1, got %+v", anchor)
	}
	if conf != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", conf)
	}

	if anchor, conf := idx.MatchCitationToReference("Nobody", "1900"); anchor != nil || conf != 0 {
		t.Errorf("expected no match, got %+v (%f)", anchor, conf)
	}
}

func TestCrossReferences(t *testing.T) {
	idx := indexFor(t)

	defs := idx.CrossRefDefinitions()
	var fig bool
	for _, def := range defs {
		if def.Kind == "figure" && def.TargetID == "1" && def.Page == 2 {
			fig = true
		}
	}
	if !fig {
		t.Fatalf("expected a figure 1 definition on page 2, got %+v", defs)
	}

	refs := idx.CrossReferencesForPage(1)
	var mention bool
	for _, ref := range refs {
		if ref.Kind == "figure" && ref.TargetID == "1" && ref.Target != nil {
			mention = true
		}
	}
	if !mention {
		t.Errorf("expected a resolved figure mention on page 1, got %+v", refs)
	}
}

func TestOutline(t *testing.T) {
	idx := indexFor(t)

	roots := idx.Outline()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	root := roots[0]
	if root.Title != "A Study of Document Structure" {
		t.Errorf("unexpected root title %q", root.Title)
	}
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.Children[0].Title != "1. Introduction" || root.Children[1].Title != "References" {
		t.Errorf("unexpected children: %q, %q", root.Children[0].Title, root.Children[1].Title)
	}
}

func TestSearch(t *testing.T) {
	idx := indexFor(t)

	matches := idx.Search("prior work", 1, idx.PageCount())
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Page != 1 {
		t.Errorf("expected match on page 1, got %d", matches[0].Page)
	}
}
