package crossref

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

// paperDocument has a bold figure caption and body mentions on page 1, and a
// section heading plus a section mention on page 2.
func paperDocument(links []engine.Link) *engine.MemoryDocument {
	return engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			run(72, 700, 180, 10, "Times-Bold", 10, "Figure 1: Results overview"),
			body(680, "As Figure 1 shows, the results hold."),
			body(660, "Unknown targets like Figure 9 stay unresolved."),
			body(640, "Some more ordinary prose to set the body font."),
		}, Links: links},
		{Width: 612, Height: 792, Runs: []model.TextRun{
			run(72, 700, 80, 14, "Times-Bold", 14, "2 Method"),
			body(680, "Details are given in Section 2 below."),
			body(660, "Padding prose so headings stand out."),
		}},
	})
}

func resolverFor(t *testing.T, doc engine.Document) *Resolver {
	t.Helper()
	ix, err := layout.NewIndexer(doc)
	if err != nil {
		t.Fatalf("NewIndexer: %v", err)
	}
	if err := ix.BuildIndex(context.Background(), nil); err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return NewResolver(doc, ix, nil)
}

func findDefinition(defs []Definition, kind, id string) *Definition {
	for i := range defs {
		if defs[i].Kind == kind && defs[i].TargetID == id {
			return &defs[i]
		}
	}
	return nil
}

func TestDefinitions(t *testing.T) {
	r := resolverFor(t, paperDocument(nil))

	defs := r.Definitions()
	fig := findDefinition(defs, "figure", "1")
	if fig == nil {
		t.Fatal("expected a figure definition")
	}
	if fig.Page != 1 || fig.Confidence != confDefinitionStyled {
		t.Errorf("unexpected figure definition: %+v", fig)
	}

	sec := findDefinition(defs, "section", "2")
	if sec == nil {
		t.Fatal("expected a section definition")
	}
	if sec.Page != 2 {
		t.Errorf("expected section definition on page 2, got %d", sec.Page)
	}
}

func TestDefinitionsIgnorePlainParagraphs(t *testing.T) {
	doc := engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: []model.TextRun{
			body(700, "2 plus 2 makes four in ordinary prose."),
			body(680, "Nothing here is a heading."),
			body(660, "More prose to establish the body font."),
		}},
	})
	r := resolverFor(t, doc)

	if def := findDefinition(r.Definitions(), "section", "2"); def != nil {
		t.Errorf("expected no section definition from body text, got %+v", def)
	}
}

func TestReferencesResolve(t *testing.T) {
	r := resolverFor(t, paperDocument(nil))

	refs := r.ReferencesForPage(1)
	var resolved *Reference
	for i := range refs {
		if refs[i].Kind == "figure" && refs[i].TargetID == "1" {
			resolved = &refs[i]
		}
	}
	if resolved == nil {
		t.Fatal("expected a figure 1 mention")
	}
	if resolved.Target == nil || resolved.Target.Page != 1 {
		t.Errorf("expected resolved target, got %+v", resolved.Target)
	}
	if resolved.Confidence != confResolved {
		t.Errorf("expected confidence %f, got %f", confResolved, resolved.Confidence)
	}
	if resolved.Rects[0].IsEmpty() {
		t.Error("expected a non-empty mention rect")
	}
}

func TestReferenceUnresolved(t *testing.T) {
	r := resolverFor(t, paperDocument(nil))

	refs := r.ReferencesForPage(1)
	var unresolved *Reference
	for i := range refs {
		if refs[i].TargetID == "9" {
			unresolved = &refs[i]
		}
	}
	if unresolved == nil {
		t.Fatal("expected a figure 9 mention")
	}
	if unresolved.Target != nil {
		t.Errorf("expected nil target, got %+v", unresolved.Target)
	}
	if unresolved.Confidence != confUnresolved {
		t.Errorf("expected confidence %f, got %f", confUnresolved, unresolved.Confidence)
	}
}

func TestDefinitionLineNotSelfReferenced(t *testing.T) {
	r := resolverFor(t, paperDocument(nil))

	for _, ref := range r.ReferencesForPage(1) {
		if ref.Kind == "figure" && ref.TargetID == "1" && ref.Rects[0].Top() > 705 {
			t.Errorf("caption line produced a self-reference: %+v", ref)
		}
	}
}

func TestSectionReferenceAcrossPages(t *testing.T) {
	r := resolverFor(t, paperDocument(nil))

	refs := r.ReferencesForPage(2)
	var sec *Reference
	for i := range refs {
		if refs[i].Kind == "section" && refs[i].TargetID == "2" {
			sec = &refs[i]
		}
	}
	if sec == nil {
		t.Fatal("expected a section 2 mention")
	}
	if sec.Target == nil || sec.Target.Page != 2 {
		t.Errorf("expected resolution to the heading, got %+v", sec.Target)
	}
}

func TestNativeLinkConfirmsReference(t *testing.T) {
	// The mention "Figure 1" sits inside the second line of page 1.
	link := engine.Link{
		Page: 1,
		Rect: model.NewRect(80, 680, 60, 10),
		Dest: &engine.Destination{Page: 1, X: 72, Y: 710},
	}
	r := resolverFor(t, paperDocument([]engine.Link{link}))

	refs := r.ReferencesForPage(1)
	var confirmed *Reference
	for i := range refs {
		if refs[i].Kind == "figure" && refs[i].TargetID == "1" {
			confirmed = &refs[i]
		}
	}
	if confirmed == nil {
		t.Fatal("expected a figure 1 mention")
	}
	if !confirmed.NativeConfirmed {
		t.Error("expected native confirmation")
	}
	if confirmed.Confidence != 1.0 {
		t.Errorf("expected capped confidence 1.0, got %f", confirmed.Confidence)
	}
}
