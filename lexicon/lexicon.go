// Package lexicon provides the versioned, data-driven pattern tables used by
// the analysis packages: bibliography heading names per language, common
// section names, continuation words, and cross-reference pattern pairs.
//
// The default tables are embedded from patterns.yaml and can be replaced at
// runtime by loading an external YAML table, so adding a language or a
// reference format is a data change, not a code change.
package lexicon

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultTableYAML []byte

// Table is the raw, unmarshalled form of a pattern table.
type Table struct {
	Version              int             `yaml:"version"`
	BibliographyHeadings []LanguageNames `yaml:"bibliography_headings"`
	ContinuationWords    []string        `yaml:"continuation_words"`
	SectionNames         []LanguageNames `yaml:"section_names"`
	CrossReferenceKinds  []CrossRefSpec  `yaml:"cross_reference_kinds"`
}

// LanguageNames is a set of names belonging to one language.
type LanguageNames struct {
	Lang  string   `yaml:"lang"`
	Names []string `yaml:"names"`
}

// CrossRefSpec is the raw pattern pair for one cross-reference kind.
type CrossRefSpec struct {
	Kind       string `yaml:"kind"`
	Definition string `yaml:"definition"`
	Reference  string `yaml:"reference"`
	// Caption marks kinds whose definitions are captions (figures, tables),
	// which get the short-first-line heuristic at detection time.
	Caption bool `yaml:"caption"`
}

// CrossRefKind is a compiled cross-reference pattern pair. The first capture
// group of each expression is the target identifier.
type CrossRefKind struct {
	Kind       string
	Definition *regexp.Regexp
	Reference  *regexp.Regexp
	Caption    bool
}

// Lexicon is a compiled pattern table ready for matching.
type Lexicon struct {
	version int

	// Case-folded name sets. Folding (rather than plain lowercasing) keeps
	// matching correct for languages with non-trivial case mappings.
	bibHeadings  map[string]language.Tag
	sectionNames map[string]language.Tag
	continuation map[string]struct{}

	crossRefKinds []CrossRefKind

	folder cases.Caser
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
	defaultErr  error
)

// Default returns the lexicon compiled from the embedded pattern tables.
// The result is shared; callers must not mutate it.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex, defaultErr = Parse(defaultTableYAML)
		if defaultErr != nil {
			// The embedded table is part of the build; failing to compile
			// it is a programming error, not a runtime condition.
			panic(fmt.Sprintf("lexicon: embedded pattern table invalid: %v", defaultErr))
		}
	})
	return defaultLex
}

// Parse compiles a YAML pattern table into a Lexicon.
func Parse(data []byte) (*Lexicon, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse pattern table: %w", err)
	}
	return Compile(table)
}

// Compile compiles an already-unmarshalled table.
func Compile(table Table) (*Lexicon, error) {
	lex := &Lexicon{
		version:      table.Version,
		bibHeadings:  make(map[string]language.Tag),
		sectionNames: make(map[string]language.Tag),
		continuation: make(map[string]struct{}),
		folder:       cases.Fold(),
	}

	for _, group := range table.BibliographyHeadings {
		tag := language.Make(group.Lang)
		for _, name := range group.Names {
			lex.bibHeadings[lex.folder.String(name)] = tag
		}
	}
	for _, group := range table.SectionNames {
		tag := language.Make(group.Lang)
		for _, name := range group.Names {
			lex.sectionNames[lex.folder.String(name)] = tag
		}
	}
	for _, word := range table.ContinuationWords {
		lex.continuation[lex.folder.String(word)] = struct{}{}
	}

	for _, spec := range table.CrossReferenceKinds {
		def, err := regexp.Compile(spec.Definition)
		if err != nil {
			return nil, fmt.Errorf("cross-reference kind %q: bad definition pattern: %w", spec.Kind, err)
		}
		ref, err := regexp.Compile(spec.Reference)
		if err != nil {
			return nil, fmt.Errorf("cross-reference kind %q: bad reference pattern: %w", spec.Kind, err)
		}
		lex.crossRefKinds = append(lex.crossRefKinds, CrossRefKind{
			Kind:       spec.Kind,
			Definition: def,
			Reference:  ref,
			Caption:    spec.Caption,
		})
	}

	return lex, nil
}

// Version returns the table version the lexicon was compiled from.
func (l *Lexicon) Version() int {
	return l.version
}

// leadingSectionNumber matches numbering prefixes such as "7.", "A.2",
// "IV." at the start of a heading line.
var leadingSectionNumber = regexp.MustCompile(`^\s*(?:\d+(?:\.\d+)*\.?|[IVXLCDM]+\.|[A-Z]\.)\s+`)

// trailingHeadingPunct matches punctuation tails left on headings ("References:").
var trailingHeadingPunct = regexp.MustCompile(`[\s.:：]+$`)

// StripSectionNumber removes a leading section-numbering prefix from a
// heading line, returning the bare title.
func StripSectionNumber(text string) string {
	return strings.TrimSpace(leadingSectionNumber.ReplaceAllString(text, ""))
}

// IsBibliographyHeading reports whether the line text (after stripping a
// leading section number and trailing punctuation) names a bibliography
// section in any known language, and which language matched.
func (l *Lexicon) IsBibliographyHeading(text string) (language.Tag, bool) {
	key := l.normalizeHeading(text)
	if key == "" {
		return language.Und, false
	}
	tag, ok := l.bibHeadings[key]
	return tag, ok
}

// IsCommonSectionName reports whether the stripped line text is one of the
// curated cross-discipline section names.
func (l *Lexicon) IsCommonSectionName(text string) bool {
	key := l.normalizeHeading(text)
	if key == "" {
		return false
	}
	_, ok := l.sectionNames[key]
	return ok
}

// IsContinuationWord reports whether the word is one a bibliography entry
// never starts with.
func (l *Lexicon) IsContinuationWord(word string) bool {
	_, ok := l.continuation[l.folder.String(strings.TrimSpace(word))]
	return ok
}

// CrossRefKinds returns the compiled cross-reference pattern pairs in table
// order. Callers must not modify the returned slice.
func (l *Lexicon) CrossRefKinds() []CrossRefKind {
	return l.crossRefKinds
}

func (l *Lexicon) normalizeHeading(text string) string {
	stripped := StripSectionNumber(text)
	stripped = trailingHeadingPunct.ReplaceAllString(stripped, "")
	return l.folder.String(strings.TrimSpace(stripped))
}
