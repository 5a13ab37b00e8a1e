package layout

import (
	"context"
	"testing"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/model"
)

func testDocument() *engine.MemoryDocument {
	return engine.NewMemoryDocument([]engine.PageData{
		{Width: 612, Height: 792, Runs: twoColumnRuns()},
		{Width: 612, Height: 792, Runs: []model.TextRun{
			makeRun(72, 700, 200, 10, "The quick brown"),
			makeRun(72, 680, 200, 10, "fox jumps over"),
		}},
		{Width: 612, Height: 792}, // no extractable text
	})
}

func TestBuildIndexAllPages(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}

	var calls []int
	err = ix.BuildIndex(context.Background(), func(done, total int) {
		if total != 3 {
			t.Errorf("progress total should be 3, got %d", total)
		}
		calls = append(calls, done)
	})
	if err != nil {
		t.Fatalf("BuildIndex failed: %v", err)
	}
	if len(calls) == 0 || calls[len(calls)-1] != 3 {
		t.Errorf("progress callback never reported completion: %v", calls)
	}

	for page := 1; page <= 3; page++ {
		if ix.Page(page) == nil {
			t.Errorf("page %d not indexed", page)
		}
	}
}

func TestBuildIndexIdempotent(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}
	if err := ix.BuildIndex(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	before := ix.Page(1)
	if err := ix.BuildIndex(context.Background(), nil); err != nil {
		t.Fatal(err)
	}
	if ix.Page(1) != before {
		t.Error("second build must be a no-op returning cached layouts")
	}
}

func TestEnsurePageIndexedCaches(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}

	first := ix.EnsurePageIndexed(2)
	if first == nil || first.IsEmpty() {
		t.Fatal("expected a non-empty layout for page 2")
	}
	if second := ix.EnsurePageIndexed(2); second != first {
		t.Error("EnsurePageIndexed on an indexed page must return the cached layout")
	}

	if ix.EnsurePageIndexed(0) != nil || ix.EnsurePageIndexed(99) != nil {
		t.Error("out-of-range pages must return nil")
	}
}

func TestEmptyPageDegradesWithWarning(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}

	pl := ix.EnsurePageIndexed(3)
	if pl == nil || !pl.IsEmpty() {
		t.Fatal("page without text must yield an empty layout, not nil")
	}

	warned := false
	for _, w := range ix.Warnings() {
		if w.Page == 3 && w.Code == WarnNoText {
			warned = true
		}
	}
	if !warned {
		t.Error("expected a WarnNoText warning for page 3")
	}
}

func TestFallbackRunsConsulted(t *testing.T) {
	config := DefaultConfig()
	config.FallbackRuns = func(page int) []model.TextRun {
		if page == 3 {
			return []model.TextRun{makeRun(72, 700, 100, 10, "recovered text")}
		}
		return nil
	}

	ix, err := NewIndexerWithConfig(testDocument(), config)
	if err != nil {
		t.Fatal(err)
	}
	pl := ix.EnsurePageIndexed(3)
	if pl.IsEmpty() {
		t.Fatal("fallback runs should have populated page 3")
	}
	if pl.Lines[0].Text != "recovered text" {
		t.Errorf("unexpected fallback content: %q", pl.Lines[0].Text)
	}
}

func TestBuildIndexCancellation(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ix.BuildIndex(ctx, nil); err == nil {
		t.Fatal("expected an error from a canceled build")
	}

	// A canceled build must not poison the indexer: a later build succeeds.
	if err := ix.BuildIndex(context.Background(), nil); err != nil {
		t.Fatalf("rebuild after cancellation failed: %v", err)
	}
}

func TestEnsurePagesIndexedClamps(t *testing.T) {
	ix, err := NewIndexer(testDocument())
	if err != nil {
		t.Fatal(err)
	}
	layouts := ix.EnsurePagesIndexed(-5, 99)
	if len(layouts) != 3 {
		t.Fatalf("expected 3 layouts, got %d", len(layouts))
	}
}

func TestNewIndexerNilDocument(t *testing.T) {
	if _, err := NewIndexer(nil); err == nil {
		t.Fatal("expected ErrNilDocument")
	}
}
