package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// StandardCategories is the category list the backend classifies into
var StandardCategories = []string{
	"Gündem",
	"Ekonomi",
	"Spor",
	"Asayiş",
	"Diğer",
	"Teknoloji",
	"Sağlık",
	"Eğitim",
	"Siyaset",
	"Kültür-Sanat",
	"Yaşam",
}

// DefaultCategories is the filter applied to the home listing when none is selected
var DefaultCategories = []string{"Yerel"}

// knownCategories also includes names that appear on articles but are not standard
var knownCategories = append(append([]string{}, StandardCategories...),
	"Yerel", "Dünya", "Magazin", "Bilim", "Otomobil", "Çevre", "Turizm", "Gıda", "Emlak", "Hukuk")

var turkishLower = cases.Lower(language.Turkish)

// foldCategory lowercases with Turkish rules (I -> ı, İ -> i) after NFC normalisation
func foldCategory(s string) string {
	return turkishLower.String(norm.NFC.String(strings.TrimSpace(s)))
}

// CanonicalCategory maps user input such as "spor" or "SAĞLIK" to the backend's spelling.
// Unknown names are returned trimmed and unchanged.
func CanonicalCategory(name string) string {
	folded := foldCategory(name)
	for _, c := range knownCategories {
		if foldCategory(c) == folded {
			return c
		}
	}
	return strings.TrimSpace(name)
}

// CanonicalCategories applies CanonicalCategory to each name, dropping blanks and duplicates
func CanonicalCategories(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		c := CanonicalCategory(n)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
