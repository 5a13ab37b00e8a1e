package lexicon

import "testing"

func TestDefaultCompiles(t *testing.T) {
	lex := Default()
	if lex.Version() != 1 {
		t.Errorf("expected table version 1, got %d", lex.Version())
	}
	if len(lex.CrossRefKinds()) == 0 {
		t.Fatal("expected compiled cross-reference kinds")
	}
}

func TestIsBibliographyHeading(t *testing.T) {
	lex := Default()

	tests := []struct {
		text string
		want bool
	}{
		{"References", true},
		{"REFERENCES", true},
		{"Bibliography", true},
		{"7. References", true},
		{"7 References", true},
		{"References:", true},
		{"Works Cited", true},
		{"Références", true},
		{"Literaturverzeichnis", true},
		{"参考文献", true},
		{"Introduction", false},
		{"Reference implementation", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, got := lex.IsBibliographyHeading(tt.text); got != tt.want {
			t.Errorf("IsBibliographyHeading(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestIsCommonSectionName(t *testing.T) {
	lex := Default()

	for _, name := range []string{"Introduction", "3.1 Related Work", "CONCLUSIONS", "摘要"} {
		if !lex.IsCommonSectionName(name) {
			t.Errorf("expected %q to be a common section name", name)
		}
	}
	for _, name := range []string{"Figure 3: results", "A novel approach to parsing"} {
		if lex.IsCommonSectionName(name) {
			t.Errorf("did not expect %q to be a common section name", name)
		}
	}
}

func TestStripSectionNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"7. References", "References"},
		{"3.2.1 Results", "Results"},
		{"IV. Discussion", "Discussion"},
		{"A. Proofs", "Proofs"},
		{"References", "References"},
	}
	for _, tt := range tests {
		if got := StripSectionNumber(tt.in); got != tt.want {
			t.Errorf("StripSectionNumber(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsContinuationWord(t *testing.T) {
	lex := Default()
	if !lex.IsContinuationWord("and") || !lex.IsContinuationWord("The") {
		t.Error("expected continuation words to match case-insensitively")
	}
	if lex.IsContinuationWord("Smith") {
		t.Error("surnames are not continuation words")
	}
}

func TestCrossRefKindPatterns(t *testing.T) {
	lex := Default()

	byKind := map[string]CrossRefKind{}
	for _, k := range lex.CrossRefKinds() {
		byKind[k.Kind] = k
	}

	fig := byKind["figure"]
	if m := fig.Definition.FindStringSubmatch("Figure 3: Architecture overview"); m == nil || m[1] != "3" {
		t.Errorf("figure definition pattern failed: %v", m)
	}
	if m := fig.Reference.FindStringSubmatch("as shown in Fig. 3a below"); m == nil || m[1] != "3a" {
		t.Errorf("figure reference pattern failed: %v", m)
	}

	sec := byKind["section"]
	if m := sec.Reference.FindStringSubmatch("see §4.2 for details"); m == nil || m[1] != "4.2" {
		t.Errorf("section reference pattern failed: %v", m)
	}

	thm := byKind["theorem"]
	if m := thm.Reference.FindStringSubmatch("by Lemma 2.1 we have"); m == nil || m[1] != "2.1" {
		t.Errorf("theorem reference pattern failed: %v", m)
	}

	if !fig.Caption || byKind["section"].Caption {
		t.Error("caption flags not carried through compilation")
	}
}

func TestParseRejectsBadPattern(t *testing.T) {
	bad := []byte(`
version: 2
cross_reference_kinds:
  - kind: figure
    definition: '(['
    reference: 'x'
`)
	if _, err := Parse(bad); err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
}
