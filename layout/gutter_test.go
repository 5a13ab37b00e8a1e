package layout

import (
	"strings"
	"testing"

	"github.com/ChihshengJ/hover-sub000/model"
)

// twoColumnRuns builds an academic-paper style page: a wide title line, then
// body text in two columns (left 72-290, right 322-540, gutter at x=306).
func twoColumnRuns() []model.TextRun {
	runs := []model.TextRun{
		makeRun(100, 740, 390, 14, "A Wide Title Spanning Both Columns"),
	}
	for i := 0; i < 30; i++ {
		y := 700 - float64(i)*18
		runs = append(runs, makeRun(72, y, 218, 10, "left column body text"))
		runs = append(runs, makeRun(322, y, 218, 10, "right column body text"))
	}
	return runs
}

func TestGutterDetectionTwoColumns(t *testing.T) {
	pl := analyzePage(1, 612, 792, twoColumnRuns(), DefaultConfig())

	if len(pl.Gutters) != 1 {
		t.Fatalf("expected 1 gutter, got %d", len(pl.Gutters))
	}
	g := pl.Gutters[0]
	if g.Left < 289 || g.Right > 323 {
		t.Errorf("gutter bounds off: %+v", g)
	}
	if len(pl.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(pl.Columns))
	}
	if pl.Columns[0].Left >= pl.Columns[0].Right || pl.Columns[0].Right > pl.Columns[1].Left {
		t.Errorf("columns not ordered and non-overlapping: %+v", pl.Columns)
	}
}

func TestGutterDetectionSingleColumnNoFalseSplit(t *testing.T) {
	// A uniform single column with small, even word gaps must yield no
	// gutters at all.
	var runs []model.TextRun
	for i := 0; i < 30; i++ {
		y := 700 - float64(i)*18
		x := 72.0
		for w := 0; w < 8; w++ {
			runs = append(runs, makeRun(x, y, 52, 10, "word"))
			x += 56 // 4pt gaps, well under 3% of line width
		}
	}

	pl := analyzePage(1, 612, 792, runs, DefaultConfig())
	if len(pl.Gutters) != 0 {
		t.Fatalf("expected no gutters on a uniform single column, got %d", len(pl.Gutters))
	}
	if len(pl.Columns) != 1 {
		t.Errorf("expected 1 column, got %d", len(pl.Columns))
	}
	if pl.AmbiguousColumns {
		t.Error("uniform page should not be flagged ambiguous")
	}
}

func TestReadingOrderTwoColumns(t *testing.T) {
	pl := analyzePage(1, 612, 792, twoColumnRuns(), DefaultConfig())

	if len(pl.Segments) != 2 {
		t.Fatalf("expected 2 segments (title band + column band), got %d", len(pl.Segments))
	}
	if pl.Segments[0].Kind != SegmentFullWidth || pl.Segments[1].Kind != SegmentColumns {
		t.Errorf("unexpected segment kinds: %v, %v", pl.Segments[0].Kind, pl.Segments[1].Kind)
	}

	if pl.Lines[0].Text != "A Wide Title Spanning Both Columns" {
		t.Errorf("title should come first, got %q", pl.Lines[0].Text)
	}

	// All left-column lines must precede all right-column lines.
	lastLeft, firstRight := -1, -1
	for i, line := range pl.Lines {
		switch line.Column {
		case 0:
			lastLeft = i
		case 1:
			if firstRight == -1 {
				firstRight = i
			}
		}
	}
	if lastLeft == -1 || firstRight == -1 {
		t.Fatal("expected lines in both columns")
	}
	if lastLeft > firstRight {
		t.Errorf("left column must be read before right column (lastLeft=%d, firstRight=%d)", lastLeft, firstRight)
	}

	// Within the left column, lines are top to bottom.
	prevTop := 1e9
	for _, line := range pl.Lines {
		if line.Column != 0 {
			continue
		}
		if line.Rect.Top() > prevTop {
			t.Fatal("left column lines not in top-to-bottom order")
		}
		prevTop = line.Rect.Top()
	}
}

func TestColumnStartFlags(t *testing.T) {
	pl := analyzePage(1, 612, 792, twoColumnRuns(), DefaultConfig())

	for _, line := range pl.Lines {
		if line.Column >= 0 && !line.AtColumnStart {
			t.Errorf("body line should start at its column margin: %q (col %d, x=%v)",
				line.Text, line.Column, line.Rect.Left())
		}
	}
}

func TestPageTextRoundTrip(t *testing.T) {
	pl := analyzePage(1, 612, 792, twoColumnRuns(), DefaultConfig())

	text := pl.Text()
	var fromLines []string
	for _, line := range pl.Lines {
		fromLines = append(fromLines, line.Text)
	}
	if text != strings.Join(fromLines, " ") {
		t.Error("page text must equal ordered-line concatenation with space separators")
	}
	if !strings.HasPrefix(text, "A Wide Title") {
		t.Errorf("reconstructed text starts wrong: %q", text[:40])
	}
}

func TestEmptyPage(t *testing.T) {
	pl := analyzePage(1, 612, 792, nil, DefaultConfig())
	if !pl.IsEmpty() {
		t.Error("expected empty layout for page with no runs")
	}
	if pl.Text() != "" {
		t.Error("empty page should yield empty text")
	}
}
