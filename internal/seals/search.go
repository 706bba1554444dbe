package seals

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Search returns the seals whose title, theme or flavor contains query,
// ignoring case. A blank query matches every seal. The result is a new
// slice; the document is not modified.
func Search(d Document, query string) []Seal {
	q := foldText(strings.TrimSpace(query))
	if q == "" {
		return append([]Seal(nil), d.Seals...)
	}
	var out []Seal
	for _, s := range d.Seals {
		haystack := foldText(strings.Join([]string{s.Title, s.Theme, s.Flavor}, " "))
		if strings.Contains(haystack, q) {
			out = append(out, s)
		}
	}
	return out
}

// foldText NFC-normalises s and applies Unicode case folding, so "THÉO"
// and "théo" compare equal regardless of how the accent was composed.
func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
