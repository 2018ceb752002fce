package yiddish

import (
	"strings"
	"unicode/utf8"
)

// Detransliterate spells lowercase YIVO romanization in the Hebrew
// alphabet, without the loshn-koydesh spellings: every word is written
// phonetically.
//
// Graphemes are matched longest first ("tsh" before "ts" before "t").
// Word-initial vowels take a shtumer alef, word-final kh/m/n/f/ts take
// their final forms, u next to a vav is written with a dagesh and i next
// to a vowel with a hiriq. Anything that is not a lowercase ASCII
// letter, including the unknown-segment sentinel, is copied unchanged
// and ends the current word.
func (t *Tables) Detransliterate(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)

	prev := ""    // previous grapheme of the current word
	var last rune // last rune written
	for i := 0; i < len(s); {
		if !isLatinLower(s[i]) {
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			last = r
			prev = ""
			i += size
			continue
		}

		g, heb := t.matchGrapheme(s[i:])
		if g == "" {
			// Letters outside the convention (c, j, q, w, x) stay Latin.
			b.WriteByte(s[i])
			last = rune(s[i])
			prev = s[i : i+1]
			i++
			continue
		}

		next := i + len(g)
		initial := prev == ""
		final := next >= len(s) || !isLatinLower(s[next])
		nextG := t.peekGrapheme(s[next:])

		switch {
		case initial && t.initials[g] != "":
			heb = t.initials[g]
		case final && t.finals[g] != "":
			heb = t.finals[g]
		case g == "u" && (last == 'ו' || last == 'װ' || nextG == "v" || nextG == "u"):
			heb = t.markedU
		case g == "i" && (t.isVowelGrapheme(prev) || prev == "y" || t.isVowelGrapheme(nextG)):
			heb = t.markedI
		}

		b.WriteString(heb)
		if r, _ := utf8.DecodeLastRuneInString(heb); r != utf8.RuneError {
			last = r
		}
		prev = g
		i = next
	}
	return b.String()
}

// ReplacePunctuation removes the quote marks of the romanization
// convention and turns hyphens into maqafs.
func (t *Tables) ReplacePunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		repl, ok := t.punctuation[r]
		if !ok {
			return r
		}
		if repl == "" {
			return -1
		}
		r2, _ := utf8.DecodeRuneInString(repl)
		return r2
	}, s)
}

func (t *Tables) matchGrapheme(s string) (latin, hebrew string) {
	for _, g := range t.graphemes {
		if strings.HasPrefix(s, g.latin) {
			return g.latin, g.hebrew
		}
	}
	return "", ""
}

// peekGrapheme returns the grapheme starting s, or "" at a word boundary.
func (t *Tables) peekGrapheme(s string) string {
	if s == "" || !isLatinLower(s[0]) {
		return ""
	}
	if g, _ := t.matchGrapheme(s); g != "" {
		return g
	}
	return s[:1]
}

func (t *Tables) isVowelGrapheme(g string) bool {
	_, ok := t.vowelGraphemes[g]
	return ok
}

func isLatinLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
