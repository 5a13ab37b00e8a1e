package references

import (
	"reflect"
	"testing"
)

func TestParseSurnameCommaInitials(t *testing.T) {
	parsed := parseAuthorsYear("Lastname, R. B., and Other, C. (1999). Some work.")

	if parsed.Year != "1999" {
		t.Errorf("expected year 1999, got %q", parsed.Year)
	}
	if !reflect.DeepEqual(parsed.Authors, []string{"Lastname", "Other"}) {
		t.Errorf("unexpected authors: %v", parsed.Authors)
	}
	if parsed.FirstAuthorLastName != "Lastname" {
		t.Errorf("expected first author Lastname, got %q", parsed.FirstAuthorLastName)
	}
}

func TestParseInitialsSurname(t *testing.T) {
	parsed := parseAuthorsYear(`R. B. Lastname and C. Other, "A title," 2005.`)

	if parsed.Year != "2005" {
		t.Errorf("expected year 2005, got %q", parsed.Year)
	}
	if !reflect.DeepEqual(parsed.Authors, []string{"Lastname", "Other"}) {
		t.Errorf("unexpected authors: %v", parsed.Authors)
	}
}

func TestParseYearSuffix(t *testing.T) {
	parsed := parseAuthorsYear("Smith, J. (2020a). Disambiguated work.")

	if parsed.Year != "2020" {
		t.Errorf("expected year 2020, got %q", parsed.Year)
	}
	if parsed.YearSuffix != "a" {
		t.Errorf("expected suffix a, got %q", parsed.YearSuffix)
	}
}

func TestParseLeadingSurnameFallback(t *testing.T) {
	parsed := parseAuthorsYear("Smith J (2020) Title of the work")

	if parsed.FirstAuthorLastName != "Smith" {
		t.Errorf("expected first author Smith, got %q", parsed.FirstAuthorLastName)
	}
	if parsed.Year != "2020" {
		t.Errorf("expected year 2020, got %q", parsed.Year)
	}
}

func TestParseFiltersVenueNoise(t *testing.T) {
	parsed := parseAuthorsYear("In Proceedings of the IEEE, 2001.")

	if len(parsed.Authors) != 0 {
		t.Errorf("expected no authors from venue text, got %v", parsed.Authors)
	}
	if parsed.Year != "2001" {
		t.Errorf("expected year 2001, got %q", parsed.Year)
	}
}

func TestParseNoYear(t *testing.T) {
	parsed := parseAuthorsYear("Smith, J. B. A title with no year.")

	if parsed.Year != "" {
		t.Errorf("expected empty year, got %q", parsed.Year)
	}
	if parsed.FirstAuthorLastName != "Smith" {
		t.Errorf("expected first author Smith, got %q", parsed.FirstAuthorLastName)
	}
}
