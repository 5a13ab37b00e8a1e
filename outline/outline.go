// Package outline builds a hierarchical document outline. When the document
// carries embedded bookmarks those are used directly; otherwise an outline
// is synthesized from heading-shaped lines, with nesting inferred from
// section numbering and font size tiers.
package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ChihshengJ/hover-sub000/engine"
	"github.com/ChihshengJ/hover-sub000/layout"
	"github.com/ChihshengJ/hover-sub000/lexicon"
	"github.com/ChihshengJ/hover-sub000/model"
)

// Node is one entry of the outline tree.
type Node struct {
	// ID is a stable identifier unique within the outline.
	ID string

	// Title is the heading text.
	Title string

	// Page and Position locate the heading (or bookmark destination).
	Page     int
	Position model.Point

	// Level is the nesting depth, starting at 1.
	Level int

	// Children are the node's subsections.
	Children []*Node
}

// Config holds configuration for outline synthesis.
type Config struct {
	// UseBookmarks: use embedded bookmarks when present instead of
	// synthesizing. Default: true.
	UseBookmarks bool

	// MaxHeadingWords is the maximum word count of a heading line.
	// Default: 12.
	MaxHeadingWords int

	// FontSizeSlack is the margin in points by which a heading font must
	// exceed the body font. Default: 0.5.
	FontSizeSlack float64

	// TierGapRatio is the relative font size drop that opens a new size
	// tier. Default: 0.10.
	TierGapRatio float64

	// MaxLevelJump caps how far a node's level may exceed its would-be
	// parent's; deeper jumps are clamped. Default: 5.
	MaxLevelJump int

	// MaxNumberJump rejects a top-level numbered heading whose leading
	// number exceeds every previously seen top-level number by more than
	// this; year-like and citation-like numbers are noise. Default: 5.
	MaxNumberJump int
}

// DefaultConfig returns the default synthesis configuration.
func DefaultConfig() Config {
	return Config{
		UseBookmarks:    true,
		MaxHeadingWords: 12,
		FontSizeSlack:   0.5,
		TierGapRatio:    0.10,
		MaxLevelJump:    5,
		MaxNumberJump:   5,
	}
}

// Synthesizer builds outlines for one document.
type Synthesizer struct {
	doc    engine.Document
	ix     *layout.Indexer
	lex    *lexicon.Lexicon
	config Config
}

// NewSynthesizer creates a synthesizer with the default lexicon and
// configuration.
func NewSynthesizer(doc engine.Document, ix *layout.Indexer) *Synthesizer {
	return NewSynthesizerWithConfig(doc, ix, lexicon.Default(), DefaultConfig())
}

// NewSynthesizerWithConfig creates a synthesizer with a custom lexicon and
// configuration.
func NewSynthesizerWithConfig(doc engine.Document, ix *layout.Indexer, lex *lexicon.Lexicon, config Config) *Synthesizer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Synthesizer{doc: doc, ix: ix, lex: lex, config: config}
}

// Outline returns the document outline. Embedded bookmarks win when present
// and enabled; otherwise headings are detected and nested. Returns nil when
// neither produces anything.
func (s *Synthesizer) Outline() []*Node {
	if s.config.UseBookmarks && s.doc != nil {
		if bms := s.doc.Bookmarks(); len(bms) > 0 {
			counter := 0
			return fromBookmarks(bms, 1, &counter)
		}
	}
	return s.synthesize()
}

// fromBookmarks converts embedded bookmarks into outline nodes.
func fromBookmarks(bms []engine.Bookmark, level int, counter *int) []*Node {
	nodes := make([]*Node, 0, len(bms))
	for _, bm := range bms {
		*counter++
		node := &Node{
			ID:    fmt.Sprintf("bm-%d", *counter),
			Title: strings.TrimSpace(bm.Title),
			Level: level,
		}
		if bm.Dest.IsValid() {
			node.Page = bm.Dest.Page
			node.Position = model.Point{X: bm.Dest.X, Y: bm.Dest.Y}
		}
		node.Children = fromBookmarks(bm.Children, level+1, counter)
		nodes = append(nodes, node)
	}
	return nodes
}

// sectionNumber matches a leading dotted section number.
var sectionNumber = regexp.MustCompile(`^\s*(\d+(?:\.\d+)*)\.?\s+\S`)

// candidate is a heading line with the signals used for nesting.
type candidate struct {
	line   *layout.Line
	number string // dotted section number, "" when unnumbered
	size   float64
	tier   int
	level  int
}

// synthesize detects heading candidates and nests them.
func (s *Synthesizer) synthesize() []*Node {
	stats := s.ix.DocumentFontStats()

	var cands []candidate
	for page := 1; page <= s.ix.PageCount(); page++ {
		pl := s.ix.EnsurePageIndexed(page)
		if pl == nil {
			continue
		}
		for i := range pl.Lines {
			line := &pl.Lines[i]
			if c, ok := s.headingCandidate(line, stats); ok {
				cands = append(cands, c)
			}
		}
	}
	if len(cands) == 0 {
		return nil
	}

	assignTiers(cands, s.config.TierGapRatio)
	assignLevels(cands)
	return s.buildTree(cands)
}

// headingCandidate decides whether a line is a heading and extracts its
// nesting signals.
func (s *Synthesizer) headingCandidate(line *layout.Line, stats layout.FontStats) (candidate, bool) {
	if line.IsEmpty() || line.WordCount() > s.config.MaxHeadingWords {
		return candidate{}, false
	}
	// A heading never ends mid-sentence.
	if strings.HasSuffix(strings.TrimSpace(line.Text), ",") {
		return candidate{}, false
	}

	larger := stats.Size > 0 && line.FontSize > stats.Size+s.config.FontSizeSlack
	styled := larger || (line.Style.IsBold() && !line.IsCommonFont)

	number := ""
	if m := sectionNumber.FindStringSubmatch(line.Text); m != nil {
		number = m[1]
	}

	known := s.lex.IsCommonSectionName(line.Text)

	switch {
	case number != "" && styled && line.AtColumnStart:
	case number == "" && styled && line.AtColumnStart:
	case known && !line.IsCommonFont:
	case line.IsAllCaps() && line.AtColumnStart && !line.IsCommonFont:
	case isTitleCase(line.Text) && line.AtColumnStart:
	default:
		return candidate{}, false
	}

	return candidate{
		line:   line,
		number: number,
		size:   line.FontSize,
	}, true
}

// assignTiers clusters candidate font sizes into descending tiers. A new
// tier opens when the size drops by more than the gap ratio.
func assignTiers(cands []candidate, gapRatio float64) {
	sizes := make([]float64, 0, len(cands))
	for _, c := range cands {
		sizes = append(sizes, c.size)
	}
	uniqueDescFloat(&sizes)

	tierOf := make(map[float64]int, len(sizes))
	tier := 0
	for i, size := range sizes {
		if i > 0 && size < sizes[i-1]*(1-gapRatio) {
			tier++
		}
		tierOf[size] = tier
	}
	for i := range cands {
		cands[i].tier = tierOf[cands[i].size]
	}
}

// assignLevels turns tiers and section-number depth into nesting levels.
// Each tier's base level leaves room for the numbered depths seen in the
// tier above it.
func assignLevels(cands []candidate) {
	// Numbered depth range per tier; offsets are relative to the
	// shallowest number seen in the tier.
	minDepth := map[int]int{}
	maxDepth := map[int]int{}
	maxTier := 0
	for _, c := range cands {
		if c.tier > maxTier {
			maxTier = c.tier
		}
		d := numberDepth(c.number)
		if d == 0 {
			continue
		}
		if cur, ok := minDepth[c.tier]; !ok || d < cur {
			minDepth[c.tier] = d
		}
		if d > maxDepth[c.tier] {
			maxDepth[c.tier] = d
		}
	}

	base := make([]int, maxTier+1)
	level := 1
	for t := 0; t <= maxTier; t++ {
		base[t] = level
		span := 1
		if maxDepth[t] > 0 {
			span = maxDepth[t] - minDepth[t] + 1
		}
		level += span
	}

	for i := range cands {
		c := &cands[i]
		c.level = base[c.tier]
		if d := numberDepth(c.number); d > 0 {
			c.level += d - minDepth[c.tier]
		}
	}
}

// isTitleCase reports whether a line reads like a title-case heading:
// at least two words, no sentence-final punctuation, and every significant
// word capitalized. Short connectives ("of", "the", "and") may stay
// lowercase.
func isTitleCase(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', ':', ';':
		return false
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return false
	}
	letters := 0
	for i, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLetter(r) {
			if i == 0 {
				return false
			}
			continue
		}
		letters++
		if unicode.IsLower(r) && (i == 0 || len(w) >= 4) {
			return false
		}
	}
	return letters >= 2
}

// numberDepth returns the depth of a dotted section number: "2" is 1,
// "2.1.3" is 3, "" is 0.
func numberDepth(number string) int {
	if number == "" {
		return 0
	}
	return strings.Count(number, ".") + 1
}

// buildTree nests the candidates with a stack walk. Numbered children must
// extend their numbered parent's prefix; level jumps beyond the guard are
// clamped.
func (s *Synthesizer) buildTree(cands []candidate) []*Node {
	var roots []*Node
	type frame struct {
		node   *Node
		level  int
		number string
	}
	var stack []frame

	maxTopNumber := 0
	for i := range cands {
		c := &cands[i]
		node := &Node{
			ID:       fmt.Sprintf("h-%d", i+1),
			Title:    strings.TrimSpace(c.line.Text),
			Page:     c.line.Page,
			Position: model.Point{X: c.line.Rect.Left(), Y: c.line.Rect.Top()},
			Level:    c.level,
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.level >= node.Level {
				stack = stack[:len(stack)-1]
				continue
			}
			if c.number != "" && top.number != "" && !numberExtends(c.number, top.number) {
				stack = stack[:len(stack)-1]
				continue
			}
			break
		}

		if len(stack) == 0 {
			if c.number != "" {
				n := leadingNumber(c.number)
				if maxTopNumber > 0 && n > maxTopNumber+s.config.MaxNumberJump {
					continue
				}
				if n > maxTopNumber {
					maxTopNumber = n
				}
			}
			node.Level = 1
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			if node.Level > parent.level+s.config.MaxLevelJump {
				node.Level = parent.level + 1
			}
			parent.node.Children = append(parent.node.Children, node)
		}
		stack = append(stack, frame{node: node, level: node.Level, number: c.number})
	}

	s.pruneBibliography(roots)
	return roots
}

// numberExtends reports whether child extends parent's dotted prefix:
// "2.1" extends "2", "3" does not extend "2".
func numberExtends(child, parent string) bool {
	return strings.HasPrefix(child, parent+".")
}

// leadingNumber returns the first component of a dotted section number.
func leadingNumber(number string) int {
	if i := strings.IndexByte(number, '.'); i >= 0 {
		number = number[:i]
	}
	n, _ := strconv.Atoi(number)
	return n
}

// pruneBibliography drops the children of bibliography nodes: reference
// entries mistaken for headings never belong in the outline.
func (s *Synthesizer) pruneBibliography(nodes []*Node) {
	for _, node := range nodes {
		if _, ok := s.lex.IsBibliographyHeading(node.Title); ok {
			node.Children = nil
			continue
		}
		s.pruneBibliography(node.Children)
	}
}

// uniqueDescFloat sorts the slice descending and removes duplicates.
func uniqueDescFloat(values *[]float64) {
	v := *values
	sort.Sort(sort.Reverse(sort.Float64Slice(v)))
	out := v[:0]
	var prev float64
	for i, x := range v {
		if i == 0 || x != prev {
			out = append(out, x)
		}
		prev = x
	}
	*values = out
}
