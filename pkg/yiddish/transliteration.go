package yiddish

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Segments splits s into characters: a base rune followed by any
// nonspacing marks attached to it (points, dagesh, rafe).
func Segments(s string) []string {
	segs := make([]string, 0, len(s)/2)
	start := -1
	for i, r := range s {
		if start >= 0 && unicode.Is(unicode.Mn, r) {
			continue
		}
		if start >= 0 {
			segs = append(segs, s[start:i])
		}
		start = i
	}
	if start >= 0 {
		segs = append(segs, s[start:])
	}
	return segs
}

// Transliterate maps every character of s to its Latin spelling, one
// output element per character. Characters outside the Hebrew block
// (placeholders, already-Latin letters, the sentinel) are returned as
// they are. A pointed letter missing from the table falls back to its
// bare letter.
func (t *Tables) Transliterate(s string) []string {
	segs := Segments(s)
	out := make([]string, len(segs))
	for i, seg := range segs {
		out[i] = t.transliterateSegment(seg)
	}
	return out
}

func (t *Tables) transliterateSegment(seg string) string {
	if v, ok := t.transliteration[norm.NFD.String(seg)]; ok {
		return v
	}
	base, size := utf8.DecodeRuneInString(seg)
	if !unicode.Is(unicode.Hebrew, base) || size == len(seg) {
		return seg
	}
	if v, ok := t.transliteration[string(base)]; ok {
		return v
	}
	return seg
}
