package search

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	// MinGram is the shortest indexed substring; it is also the shortest
	// query autocomplete accepts.
	MinGram = 3
	MaxGram = 15
)

var folder = cases.Fold()

// normalize applies NFKC (full-width forms to ASCII, ligatures) and case folding.
func normalize(s string) string {
	return folder.String(norm.NFKC.String(s))
}

// Tokens splits normalised text on anything that is not a letter or digit.
func Tokens(s string) []string {
	return strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Grams returns the distinct n-grams (MinGram..MaxGram runes) of every token.
func Grams(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokens(s) {
		runes := []rune(tok)
		for n := MinGram; n <= MaxGram && n <= len(runes); n++ {
			for i := 0; i+n <= len(runes); i++ {
				g := string(runes[i : i+n])
				if _, ok := seen[g]; ok {
					continue
				}
				seen[g] = struct{}{}
				out = append(out, g)
			}
		}
	}
	return out
}

// QueryGrams returns the grams a document must all carry to match q: each
// token long enough to be indexed contributes itself, or its MaxGram windows
// when longer than MaxGram.
func QueryGrams(q string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(g string) {
		if _, ok := seen[g]; !ok {
			seen[g] = struct{}{}
			out = append(out, g)
		}
	}
	for _, tok := range Tokens(q) {
		runes := []rune(tok)
		switch {
		case len(runes) < MinGram:
			continue
		case len(runes) <= MaxGram:
			add(tok)
		default:
			for i := 0; i+MaxGram <= len(runes); i++ {
				add(string(runes[i : i+MaxGram]))
			}
		}
	}
	return out
}

// tooShort is the early-reject rule for autocomplete queries.
func tooShort(q string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(q)) < MinGram
}
