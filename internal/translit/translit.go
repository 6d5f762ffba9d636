// Package translit converts Uzbek place names written in the Latin alphabet into
// the Cyrillic alphabet the reference price table is keyed by.
package translit

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

type pair struct {
	from string
	to   string
}

// baseTable is the lower-case substitution table in declaration order. Digraphs
// come first; within one key length the declaration order decides which of two
// overlapping sequences wins (e.g. "ng'" becomes "нг" and not "нғ").
var baseTable = []pair{
	{"yo", "ё"}, {"yu", "ю"}, {"ya", "я"}, {"ye", "е"},
	{"o‘", "ў"}, {"g‘", "ғ"},
	{"sh", "ш"}, {"ch", "ч"}, {"ng", "нг"},
	{"o'", "ў"}, {"g'", "ғ"},

	{"a", "а"}, {"b", "б"}, {"d", "д"}, {"e", "э"}, {"f", "ф"},
	{"g", "г"}, {"h", "ҳ"}, {"i", "и"}, {"j", "ж"}, {"k", "к"},
	{"l", "л"}, {"m", "м"}, {"n", "н"}, {"o", "о"}, {"p", "п"},
	{"q", "қ"}, {"r", "р"}, {"s", "с"}, {"t", "т"}, {"u", "у"},
	{"v", "в"}, {"x", "х"}, {"y", "й"}, {"z", "з"},

	// apostrophe variants used as letter modifiers
	{"’", ""}, {"'", ""}, {"ʻ", ""}, {"`", ""},
}

// table is baseTable plus upper-case variants, sorted by descending key length.
var table = buildTable(baseTable)

func buildTable(base []pair) []pair {
	out := make([]pair, 0, len(base)*2)
	seen := make(map[string]bool, len(base)*2)
	for _, p := range base {
		out = append(out, p)
		seen[p.from] = true
	}
	for _, p := range base {
		up := strings.ToUpper(p.from)
		if seen[up] {
			continue
		}
		out = append(out, pair{from: up, to: strings.ToUpper(p.to)})
		seen[up] = true
	}
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i].from) > utf8.RuneCountInString(out[j].from)
	})
	return out
}

// IsCanonicalScript reports whether text already contains a Cyrillic letter from
// the basic range А..я or Ё/ё. Such input is not transliterated.
func IsCanonicalScript(text string) bool {
	for _, r := range text {
		if (r >= 'А' && r <= 'я') || r == 'Ё' || r == 'ё' {
			return true
		}
	}
	return false
}

// Normalize returns the canonical Cyrillic form of a place name: trimmed, with
// its first letter title-cased. Latin input is transliterated first.
func Normalize(text string) string {
	text = strings.TrimSpace(norm.NFC.String(text))
	if !IsCanonicalScript(text) {
		text = LatinToCyrillic(text)
	}
	return Capitalize(text)
}

// LatinToCyrillic applies the substitution table to text. Each pair is replaced
// literally across the whole string, longest keys first.
func LatinToCyrillic(text string) string {
	out := strings.TrimSpace(text)
	for _, p := range table {
		out = strings.ReplaceAll(out, p.from, p.to)
	}
	return out
}

// Capitalize title-cases the first rune of s and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToTitle(r)) + s[size:]
}
