package references

import (
	"regexp"
	"strings"
)

// Author/year extraction patterns. These run over the text of a segmented
// entry, never over body prose, so they can stay permissive.
var (
	// yearPattern matches a plausible publication year with an optional
	// disambiguating letter suffix ("2020a").
	yearPattern = regexp.MustCompile(`\b((?:1[89]|20)\d{2})([a-z])?\b`)

	// surnameCommaInitials matches "Lastname, R. B." forms.
	surnameCommaInitials = regexp.MustCompile(`([A-Z][A-Za-z'’\x60-]+),\s*((?:[A-Z]\.[\s-]?)+)`)

	// initialsSurname matches "R. B. Lastname" forms, the common shape in
	// numbered bibliographies.
	initialsSurname = regexp.MustCompile(`((?:[A-Z]\.[\s-]?)+)\s*([A-Z][A-Za-z'’\x60-]+)`)

	// leadingSurname grabs a capitalized first word as a last-resort first
	// author ("Smith J (2020) ..." without punctuation).
	leadingSurname = regexp.MustCompile(`^\s*(?:\[\d+\]|\(\d+\)|\d+\.)?\s*([A-Z][a-z'’\x60-]{2,})\b`)
)

// ParsedEntry is the author/year information extracted from one entry.
type ParsedEntry struct {
	FirstAuthorLastName string
	Authors             []string
	Year                string
	YearSuffix          string
}

// parseAuthorsYear extracts author surnames and the publication year from
// the raw text of a bibliography entry. Extraction is best-effort; missing
// fields stay empty and never fail the anchor.
func parseAuthorsYear(text string) ParsedEntry {
	var parsed ParsedEntry

	yearLoc := yearPattern.FindStringSubmatchIndex(text)
	head := text
	if yearLoc != nil {
		parsed.Year = text[yearLoc[2]:yearLoc[3]]
		if yearLoc[4] >= 0 {
			parsed.YearSuffix = text[yearLoc[4]:yearLoc[5]]
		}
		// Authors precede the year in every common style.
		head = text[:yearLoc[0]]
	}

	seen := map[string]bool{}
	add := func(surname string) {
		surname = strings.TrimSpace(surname)
		if surname == "" || seen[surname] || isNameNoise(surname) {
			return
		}
		seen[surname] = true
		parsed.Authors = append(parsed.Authors, surname)
	}

	for _, m := range surnameCommaInitials.FindAllStringSubmatch(head, -1) {
		add(m[1])
	}
	for _, m := range initialsSurname.FindAllStringSubmatch(head, -1) {
		add(m[2])
	}
	if len(parsed.Authors) == 0 {
		if m := leadingSurname.FindStringSubmatch(head); m != nil {
			add(m[1])
		}
	}

	if len(parsed.Authors) > 0 {
		parsed.FirstAuthorLastName = parsed.Authors[0]
	}
	return parsed
}

// isNameNoise filters capitalized non-name tokens the surname patterns can
// pick up from titles and venues.
func isNameNoise(word string) bool {
	switch strings.ToLower(word) {
	case "in", "proc", "proceedings", "journal", "press", "vol", "ed", "eds",
		"university", "conference", "trans", "transactions", "int", "acm", "ieee":
		return true
	}
	return false
}
