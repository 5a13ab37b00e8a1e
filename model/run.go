package model

import "strings"

// FontStyle classifies the visual weight/slant of a text run, derived from
// the PostScript font name reported by the PDF engine.
type FontStyle int

const (
	StyleRegular FontStyle = iota
	StyleBold
	StyleItalic
	StyleBoldItalic
)

// String returns a string representation of the font style.
func (s FontStyle) String() string {
	switch s {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleBoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// IsBold reports whether the style has bold weight.
func (s FontStyle) IsBold() bool {
	return s == StyleBold || s == StyleBoldItalic
}

// IsItalic reports whether the style has an italic slant.
func (s FontStyle) IsItalic() bool {
	return s == StyleItalic || s == StyleBoldItalic
}

// TextRun is a positioned run of text on a page, as produced by the external
// text-extraction engine. X,Y is the bottom-left corner of the run's
// bounding box. Runs are immutable once produced; the analysis packages
// never modify them.
type TextRun struct {
	Text     string
	X, Y     float64
	Width    float64
	Height   float64
	FontName string  // May be empty when the engine has no font info
	FontSize float64 // 0 when unknown
}

// Rect returns the bounding rectangle of the run.
func (r TextRun) Rect() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Style derives the font style from the run's font name. Unknown or empty
// font names map to StyleRegular.
func (r TextRun) Style() FontStyle {
	return ParseFontStyle(r.FontName)
}

// EffectiveFontSize returns the reported font size, falling back to the run
// height when the engine did not report one.
func (r TextRun) EffectiveFontSize() float64 {
	if r.FontSize > 0 {
		return r.FontSize
	}
	return r.Height
}

// ParseFontStyle infers bold/italic styling from a font name such as
// "NimbusRomNo9L-MediItal" or "Arial-BoldMT". PDF producers encode weight
// and slant in the name rather than in separate fields.
func ParseFontStyle(fontName string) FontStyle {
	if fontName == "" {
		return StyleRegular
	}
	name := strings.ToLower(fontName)

	bold := strings.Contains(name, "bold") ||
		strings.Contains(name, "black") ||
		strings.Contains(name, "heavy") ||
		strings.Contains(name, "semibold") ||
		strings.Contains(name, "demibold") ||
		strings.Contains(name, "medi")
	italic := strings.Contains(name, "italic") ||
		strings.Contains(name, "oblique") ||
		strings.Contains(name, "ital")

	switch {
	case bold && italic:
		return StyleBoldItalic
	case bold:
		return StyleBold
	case italic:
		return StyleItalic
	default:
		return StyleRegular
	}
}
