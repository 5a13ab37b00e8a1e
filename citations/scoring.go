package citations

import (
	"strings"

	"github.com/ChihshengJ/hover-sub000/references"
)

// Surname match scores. A citation surname must carry most of the signal:
// anything under the discard threshold never becomes a citation, and ties
// between entries (same surname and year, different works) are damped.
const (
	scoreExactSurname   = 1.0
	scorePrefixSurname  = 0.7
	scoreCoAuthor       = 0.6
	coAuthorBonus       = 0.2
	discardThreshold    = 0.4
	ambiguityDamping    = 0.6
	superscriptBaseline = 0.75
	surnamePrefixLen    = 4

	// formatDamping scales citations found by the style that does not match
	// the bibliography's dominant numbering format.
	formatDamping = 0.6
)

// resolveAuthorYear finds the best-scoring anchor for a surname/year pair.
func (d *Detector) resolveAuthorYear(surname, second, yearKey string) (*references.Anchor, float64) {
	return ResolveAuthorYear(d.anchors, surname, second, yearKey)
}

// ResolveAuthorYear finds the best-scoring bibliography anchor for a
// surname/year pair. The year key may carry a disambiguating suffix
// ("2020a"); second is an optional conjoined co-author surname. Ties
// between distinct entries damp the returned score.
func ResolveAuthorYear(anchors []references.Anchor, surname, second, yearKey string) (*references.Anchor, float64) {
	year, suffix := splitYearKey(yearKey)

	var best *references.Anchor
	bestScore, bestCount := 0.0, 0
	for i := range anchors {
		anchor := &anchors[i]
		score := scoreAgainstAnchor(surname, second, year, suffix, anchor)
		switch {
		case score > bestScore:
			best, bestScore, bestCount = anchor, score, 1
		case score == bestScore && score > 0:
			bestCount++
		}
	}
	if best == nil {
		return nil, 0
	}
	if bestCount > 1 {
		bestScore *= ambiguityDamping
	}
	return best, bestScore
}

// scoreAgainstAnchor scores a citation surname against one entry. The year
// gates the match entirely; the surname sets the base score; a matching
// conjoined second surname adds a bonus.
func scoreAgainstAnchor(surname, second, year, suffix string, anchor *references.Anchor) float64 {
	if anchor.Year == "" || anchor.Year != year {
		return 0
	}
	if suffix != "" && anchor.YearSuffix != "" && suffix != anchor.YearSuffix {
		return 0
	}

	key := strings.ToLower(surname)
	score := 0.0
	switch {
	case key == strings.ToLower(anchor.FirstAuthorLastName):
		score = scoreExactSurname
	case len(key) >= surnamePrefixLen && len(anchor.FirstAuthorLastName) >= surnamePrefixLen &&
		key[:surnamePrefixLen] == strings.ToLower(anchor.FirstAuthorLastName)[:surnamePrefixLen]:
		score = scorePrefixSurname
	case containsSurname(anchor.Authors[min(1, len(anchor.Authors)):], key):
		score = scoreCoAuthor
	default:
		return 0
	}

	if second != "" && containsSurname(anchor.Authors, strings.ToLower(second)) {
		score += coAuthorBonus
		if score > 1 {
			score = 1
		}
	}
	return score
}

func containsSurname(authors []string, key string) bool {
	for _, a := range authors {
		if strings.ToLower(a) == key {
			return true
		}
	}
	return false
}

func splitYearKey(key string) (year, suffix string) {
	if n := len(key); n > 0 && key[n-1] >= 'a' && key[n-1] <= 'z' {
		return key[:n-1], key[n-1:]
	}
	return key, ""
}
